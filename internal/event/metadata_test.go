package event

import (
	"testing"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMetadata(t *testing.T) {
	t.Run("Success - full delivery", func(t *testing.T) {
		meta, err := ExtractMetadata(model.RawDelivery{
			"pull_request": map[string]any{
				"number":     float64(42),
				"title":      "Add feature",
				"body":       "Some description",
				"created_at": "2024-01-15T10:00:00Z",
				"user":       map[string]any{"login": "alice"},
				"base":       map[string]any{"ref": "develop"},
				"head":       map[string]any{"ref": "feature/x"},
			},
			"repository": map[string]any{"full_name": "octo/repo"},
		})

		require.NoError(t, err)
		assert.Equal(t, 42, meta.PRNumber)
		assert.Equal(t, "octo/repo", meta.Repository)
		assert.Equal(t, "alice", meta.Author)
		assert.Equal(t, "Add feature", meta.Title)
		assert.Equal(t, "Some description", meta.Description)
		assert.Equal(t, "develop", meta.BaseBranch)
		assert.Equal(t, "feature/x", meta.HeadBranch)
		assert.Equal(t, "2024-01-15T10:00:00Z", meta.CreatedAt)
	})

	t.Run("Success - missing optional fields get defaults", func(t *testing.T) {
		meta, err := ExtractMetadata(model.RawDelivery{
			"pull_request": map[string]any{"number": float64(1)},
			"repository":   map[string]any{"full_name": "octo/repo"},
		})

		require.NoError(t, err)
		assert.Equal(t, "unknown", meta.Author)
		assert.Equal(t, "No title", meta.Title)
		assert.Equal(t, "main", meta.BaseBranch)
		assert.Equal(t, "unknown", meta.HeadBranch)
		assert.Empty(t, meta.Description)
	})

	t.Run("Success - null title falls back to default", func(t *testing.T) {
		meta, err := ExtractMetadata(model.RawDelivery{
			"pull_request": map[string]any{
				"number": float64(1),
				"title":  nil,
				"user":   map[string]any{"login": nil},
			},
			"repository": map[string]any{"full_name": "octo/repo"},
		})

		require.NoError(t, err)
		assert.Equal(t, "No title", meta.Title)
		assert.Equal(t, "unknown", meta.Author)
	})

	t.Run("Success - PR number from top level", func(t *testing.T) {
		meta, err := ExtractMetadata(model.RawDelivery{
			"number":       float64(9),
			"pull_request": map[string]any{},
			"repository":   map[string]any{"full_name": "octo/repo"},
		})

		require.NoError(t, err)
		assert.Equal(t, 9, meta.PRNumber)
	})

	t.Run("Error - missing PR number", func(t *testing.T) {
		_, err := ExtractMetadata(model.RawDelivery{
			"pull_request": map[string]any{},
			"repository":   map[string]any{"full_name": "octo/repo"},
		})

		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
	})

	t.Run("Error - missing repository", func(t *testing.T) {
		_, err := ExtractMetadata(model.RawDelivery{
			"pull_request": map[string]any{"number": float64(1)},
		})

		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
	})
}

func TestMetadataFromRecord(t *testing.T) {
	t.Run("Success - defaults applied to empty record fields", func(t *testing.T) {
		meta := MetadataFromRecord(model.PRRecord{Number: 3}, "octo/repo")

		assert.Equal(t, 3, meta.PRNumber)
		assert.Equal(t, "octo/repo", meta.Repository)
		assert.Equal(t, "unknown", meta.Author)
		assert.Equal(t, "No title", meta.Title)
		assert.Equal(t, "main", meta.BaseBranch)
		assert.Equal(t, "unknown", meta.HeadBranch)
	})

	t.Run("Success - populated record passes through", func(t *testing.T) {
		meta := MetadataFromRecord(model.PRRecord{
			Number:      3,
			Title:       "Fix bug",
			Body:        "desc",
			AuthorLogin: "bob",
			BaseRef:     "release",
			HeadRef:     "hotfix",
			CreatedAt:   "2024-01-15T10:00:00Z",
		}, "octo/repo")

		assert.Equal(t, "Fix bug", meta.Title)
		assert.Equal(t, "bob", meta.Author)
		assert.Equal(t, "release", meta.BaseBranch)
		assert.Equal(t, "hotfix", meta.HeadBranch)
	})
}
