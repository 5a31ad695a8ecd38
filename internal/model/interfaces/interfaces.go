package interfaces

import (
	"context"

	"github.com/maxbolgarin/diffsense/internal/model"
)

// SourceProvider defines the interface for source-control APIs (GitHub, GitLab).
// Implementations return real errors; the fetch layer on top of them absorbs
// every failure into placeholder data so the pipeline never sees it.
type SourceProvider interface {
	// FetchPullRequest retrieves the pull request record for repo "owner/name".
	FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error)

	// FetchFiles retrieves the list of changed files with all fields defaulted
	// per the FileDiff invariants.
	FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error)

	// ValidateWebhook validates the webhook signature of an inbound delivery.
	ValidateWebhook(payload []byte, signature string) error
}

// SymbolExtractor extracts code symbols from a changed file for embedding.
// The default implementation is a stub that emits one placeholder symbol per
// supported language; real parsing plugs in here.
type SymbolExtractor interface {
	ExtractSymbols(file model.PayloadFile) []model.Symbol
}
