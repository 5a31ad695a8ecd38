package provider

import (
	"context"
	"time"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// Fetcher retrieves PR data from a source provider and never propagates a
// failure to the caller: one attempt per invocation, bounded by a timeout,
// then immediate fallback to placeholder data. The returned FetchOutcome says
// whether the fallback fired and why; the data itself is always usable.
type Fetcher struct {
	provider interfaces.SourceProvider
	timeout  time.Duration
	log      logze.Logger
}

// NewFetcher creates a new fetcher wrapping the given provider.
func NewFetcher(provider interfaces.SourceProvider, timeout time.Duration) *Fetcher {
	return &Fetcher{
		provider: provider,
		timeout:  lang.Check(timeout, defaultTimeout),
		log:      logze.With("component", "fetcher"),
	}
}

// FetchPullRequest retrieves the PR record for repo "owner/name".
func (f *Fetcher) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, model.FetchOutcome) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	rec, err := f.provider.FetchPullRequest(ctx, repo, number)
	if err != nil {
		f.log.Warn("PR fetch failed, using placeholder data",
			"repository", repo, "pr_number", number, "error", err.Error())
		return PlaceholderRecord(number), model.PlaceholderData(err.Error())
	}

	return rec, model.LiveData()
}

// FetchFiles retrieves the changed files of a PR. Every record returned, real
// or placeholder, has all fields defaulted per the FileDiff invariants.
func (f *Fetcher) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, model.FetchOutcome) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	files, err := f.provider.FetchFiles(ctx, repo, number)
	if err != nil {
		f.log.Warn("file fetch failed, using placeholder data",
			"repository", repo, "pr_number", number, "error", err.Error())
		return PlaceholderFiles(), model.PlaceholderData(err.Error())
	}

	return files, model.LiveData()
}
