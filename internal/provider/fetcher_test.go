package provider

import (
	"context"
	"testing"
	"time"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	rec     model.PRRecord
	files   []model.FileDiff
	err     error
	lastCtx context.Context
}

func (s *stubProvider) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error) {
	s.lastCtx = ctx
	return s.rec, s.err
}

func (s *stubProvider) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error) {
	s.lastCtx = ctx
	return s.files, s.err
}

func (s *stubProvider) ValidateWebhook(payload []byte, signature string) error {
	return nil
}

func TestFetcher(t *testing.T) {
	t.Run("Success - live data passes through", func(t *testing.T) {
		stub := &stubProvider{
			rec:   model.PRRecord{Number: 42, Title: "Real PR"},
			files: []model.FileDiff{{FilePath: "main.go", ChangeType: "modified", Additions: 1}},
		}
		f := NewFetcher(stub, time.Second)

		rec, outcome := f.FetchPullRequest(context.Background(), "octo/repo", 42)
		require.False(t, outcome.Placeholder)
		assert.Equal(t, "Real PR", rec.Title)

		files, outcome := f.FetchFiles(context.Background(), "octo/repo", 42)
		require.False(t, outcome.Placeholder)
		require.Len(t, files, 1)
		assert.Equal(t, "main.go", files[0].FilePath)
	})

	t.Run("Success - failing provider degrades to placeholder record", func(t *testing.T) {
		stub := &stubProvider{err: errm.New("api unavailable")}
		f := NewFetcher(stub, time.Second)

		rec, outcome := f.FetchPullRequest(context.Background(), "octo/repo", 7)

		assert.True(t, outcome.Placeholder)
		assert.Contains(t, outcome.Reason, "api unavailable")
		assert.Equal(t, 7, rec.Number)
		assert.Equal(t, "Mock PR #7", rec.Title)
		assert.Equal(t, "mock-user", rec.AuthorLogin)
	})

	t.Run("Success - failing provider degrades to non-empty placeholder files", func(t *testing.T) {
		stub := &stubProvider{err: errm.New("api unavailable")}
		f := NewFetcher(stub, time.Second)

		files, outcome := f.FetchFiles(context.Background(), "octo/repo", 7)

		assert.True(t, outcome.Placeholder)
		require.NotEmpty(t, files)
		for _, file := range files {
			assert.NotEmpty(t, file.FilePath)
			assert.NotEmpty(t, file.ChangeType)
			assert.GreaterOrEqual(t, file.Additions, 0)
			assert.GreaterOrEqual(t, file.Deletions, 0)
		}
	})

	t.Run("Success - provider call is bounded by a deadline", func(t *testing.T) {
		stub := &stubProvider{}
		f := NewFetcher(stub, time.Second)

		f.FetchFiles(context.Background(), "octo/repo", 1)

		require.NotNil(t, stub.lastCtx)
		_, ok := stub.lastCtx.Deadline()
		assert.True(t, ok)
	})
}
