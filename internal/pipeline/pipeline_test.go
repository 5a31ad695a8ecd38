package pipeline

import (
	"context"
	"testing"

	"github.com/maxbolgarin/diffsense/internal/event"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/payload"
	"github.com/maxbolgarin/diffsense/internal/provider"
	"github.com/maxbolgarin/diffsense/internal/record"
	"github.com/maxbolgarin/errm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	rec   model.PRRecord
	files []model.FileDiff
	err   error
}

func (f *fakeProvider) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error) {
	return f.rec, f.err
}

func (f *fakeProvider) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error) {
	return f.files, f.err
}

func (f *fakeProvider) ValidateWebhook(payload []byte, signature string) error {
	return nil
}

func newTestPipeline(t *testing.T, fake *fakeProvider) *Pipeline {
	t.Helper()

	assembler, err := payload.New(payload.Config{}, nil)
	require.NoError(t, err)

	return New(provider.NewFetcher(fake, 0), assembler, record.NewStore(), nil, nil)
}

func openedDelivery(number int) model.RawDelivery {
	return model.RawDelivery{
		"action": "opened",
		"pull_request": map[string]any{
			"number": float64(number),
			"title":  "Add feature",
			"user":   map[string]any{"login": "alice"},
		},
		"repository": map[string]any{"full_name": "octo/repo"},
	}
}

func TestProcessWebhook(t *testing.T) {
	t.Run("Success - opened event end to end", func(t *testing.T) {
		fake := &fakeProvider{files: []model.FileDiff{
			{FilePath: "a.py", ChangeType: "modified", Additions: 3, Deletions: 1, Patch: "+x=1"},
			{FilePath: "b.md", ChangeType: "added", Additions: 2},
		}}
		p := newTestPipeline(t, fake)

		resp := p.ProcessWebhook(context.Background(), openedDelivery(42))

		assert.Equal(t, model.StatusSuccess, resp.Status)
		assert.Equal(t, model.TriggerWebhook, resp.Trigger)
		assert.True(t, resp.PayloadReady)

		require.NotNil(t, resp.Summary)
		assert.Equal(t, 42, resp.Summary.PRNumber)
		assert.Equal(t, "octo/repo", resp.Summary.Repository)
		assert.Equal(t, 2, resp.Summary.FilesProcessed)
		assert.Equal(t, 5, resp.Summary.TotalAdditions)
		assert.Equal(t, 1, resp.Summary.TotalDeletions)

		require.NotNil(t, resp.Payload)
		assert.Equal(t, model.TriggerWebhook, resp.Payload.PRMetadata.TriggerType)
		assert.Equal(t, "alice", resp.Payload.PRMetadata.Author)
		require.Len(t, resp.Payload.ModifiedFiles, 2)
		assert.Equal(t, "+x=1", resp.Payload.ModifiedFiles[0].Patch)
	})

	t.Run("Success - irrelevant delivery is ignored, not failed", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{})

		resp := p.ProcessWebhook(context.Background(), model.RawDelivery{"zen": "Design for failure."})

		assert.Equal(t, model.StatusIgnored, resp.Status)
		assert.Equal(t, event.ReasonNoPRData, resp.Reason)
		assert.False(t, resp.PayloadReady)
		assert.Nil(t, resp.Payload)
	})

	t.Run("Success - accepted delivery without extractable metadata is ignored", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{})

		// Classifier accepts on the empty action rule, extraction then fails
		// on the missing repository.
		resp := p.ProcessWebhook(context.Background(), model.RawDelivery{
			"pull_request": map[string]any{"number": float64(42)},
		})

		assert.Equal(t, model.StatusIgnored, resp.Status)
		assert.NotEmpty(t, resp.Reason)
	})

	t.Run("Success - provider failure degrades to placeholder payload", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{err: errm.New("api down")})

		resp := p.ProcessWebhook(context.Background(), openedDelivery(7))

		assert.Equal(t, model.StatusSuccess, resp.Status)
		require.NotNil(t, resp.Payload)
		assert.NotEmpty(t, resp.Payload.ModifiedFiles)
	})

	t.Run("Success - last response is recorded", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{})

		_, ok := p.LastResponse()
		assert.False(t, ok)

		resp := p.ProcessWebhook(context.Background(), openedDelivery(42))

		last, ok := p.LastResponse()
		require.True(t, ok)
		assert.Equal(t, resp.Status, last.Status)
		assert.Equal(t, resp.Timestamp, last.Timestamp)
	})
}

func TestAnalyzePR(t *testing.T) {
	t.Run("Success - on-demand analysis with live data", func(t *testing.T) {
		fake := &fakeProvider{
			rec: model.PRRecord{Number: 42, Title: "Real PR", AuthorLogin: "bob", BaseRef: "main", HeadRef: "feat"},
			files: []model.FileDiff{
				{FilePath: "a.py", ChangeType: "modified", Additions: 1, Patch: "+x=1"},
			},
		}
		p := newTestPipeline(t, fake)

		resp, err := p.AnalyzePR(context.Background(), "octo/repo", 42)

		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, resp.Status)
		assert.Equal(t, model.TriggerOnDemand, resp.Trigger)
		assert.Equal(t, "Real PR", resp.Metadata.Title)
		assert.Equal(t, "bob", resp.Metadata.Author)
		require.NotNil(t, resp.Payload)
		assert.Equal(t, model.TriggerOnDemand, resp.Payload.PRMetadata.TriggerType)
	})

	t.Run("Success - provider failure yields mock PR analysis", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{err: errm.New("api down")})

		resp, err := p.AnalyzePR(context.Background(), "octo/repo", 7)

		require.NoError(t, err)
		assert.Equal(t, model.StatusSuccess, resp.Status)
		assert.Equal(t, "Mock PR #7", resp.Metadata.Title)
		assert.NotEmpty(t, resp.Payload.ModifiedFiles)
	})

	t.Run("Error - non-positive PR number", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{})

		_, err := p.AnalyzePR(context.Background(), "octo/repo", 0)

		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
	})

	t.Run("Error - repository without owner", func(t *testing.T) {
		p := newTestPipeline(t, &fakeProvider{})

		_, err := p.AnalyzePR(context.Background(), "repo", 1)

		require.Error(t, err)
		assert.True(t, model.IsValidation(err))
	})
}
