package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/diffsense/internal/event"
	"github.com/maxbolgarin/diffsense/internal/forward"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/parser"
	"github.com/maxbolgarin/diffsense/internal/payload"
	"github.com/maxbolgarin/diffsense/internal/provider"
	"github.com/maxbolgarin/diffsense/internal/record"
	"github.com/maxbolgarin/logze/v2"
)

// Pipeline runs the classify -> extract -> fetch -> normalize -> assemble flow
// shared by both entry points. Each request is handled independently: no
// cross-request state exists besides the best-effort last-response store.
type Pipeline struct {
	fetcher   *provider.Fetcher
	assembler *payload.Assembler
	store     *record.Store
	sink      *record.FileSink
	forwarder *forward.Forwarder
	log       logze.Logger
}

// New creates a new pipeline. The sink and forwarder may be nil, the
// corresponding post-processing steps are then skipped.
func New(fetcher *provider.Fetcher, assembler *payload.Assembler, store *record.Store, sink *record.FileSink, forwarder *forward.Forwarder) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		assembler: assembler,
		store:     store,
		sink:      sink,
		forwarder: forwarder,
		log:       logze.With("component", "pipeline"),
	}
}

// ProcessWebhook handles one inbound delivery. Irrelevant or malformed
// deliveries are a benign "ignored" outcome, not a failure: the caller always
// gets a well-formed response to acknowledge with.
func (p *Pipeline) ProcessWebhook(ctx context.Context, delivery model.RawDelivery) model.WebhookResponse {
	classification := event.Classify(delivery)
	if !classification.Accepted {
		p.log.Info("webhook ignored", "reason", classification.Reason)
		return p.finishWebhook(p.ignoredResponse(classification.Reason), "")
	}

	meta, err := event.ExtractMetadata(delivery)
	if err != nil {
		p.log.Info("webhook ignored", "reason", err.Error())
		return p.finishWebhook(p.ignoredResponse(err.Error()), "")
	}

	log := p.log.WithFields("repository", meta.Repository, "pr_number", meta.PRNumber)
	log.Info("processing webhook event", "title", meta.Title, "author", meta.Author)

	timer := abstract.StartTimer()

	files, outcome := p.fetcher.FetchFiles(ctx, meta.Repository, meta.PRNumber)
	parsed := parser.Normalize(meta, files)

	elapsedMS := timer.ElapsedTime().Milliseconds()
	assembled := p.assembler.Assemble(parsed, model.TriggerWebhook, elapsedMS)

	log.Info("webhook processed",
		"files", len(parsed.Files),
		"additions", parsed.TotalAdditions,
		"deletions", parsed.TotalDeletions,
		"placeholder_data", outcome.Placeholder,
		"elapsed_time", timer.ElapsedTime().String(),
	)

	resp := model.WebhookResponse{
		Status:    model.StatusSuccess,
		Message:   "Webhook processed automatically",
		Trigger:   model.TriggerWebhook,
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: &model.WebhookSummary{
			PRNumber:         meta.PRNumber,
			Repository:       meta.Repository,
			FilesProcessed:   len(parsed.Files),
			TotalAdditions:   parsed.TotalAdditions,
			TotalDeletions:   parsed.TotalDeletions,
			ProcessingTimeMS: elapsedMS,
		},
		Payload:      &assembled,
		PayloadReady: true,
	}

	if p.forwarder != nil {
		p.forwarder.Forward(assembled)
	}

	return p.finishWebhook(resp, meta.Repository)
}

// AnalyzePR handles an on-demand lookup by PR identifier. It skips
// classification: the caller already named a concrete PR.
func (p *Pipeline) AnalyzePR(ctx context.Context, repo string, prNumber int) (model.AnalyzeResponse, error) {
	if prNumber <= 0 {
		return model.AnalyzeResponse{}, model.NewValidationError("PR number must be a positive integer")
	}
	if !strings.Contains(repo, "/") {
		return model.AnalyzeResponse{}, model.NewValidationError("repository must be in format 'owner/name'")
	}

	log := p.log.WithFields("repository", repo, "pr_number", prNumber)
	log.Info("on-demand PR analysis requested")

	timer := abstract.StartTimer()

	rec, recOutcome := p.fetcher.FetchPullRequest(ctx, repo, prNumber)
	meta := event.MetadataFromRecord(rec, repo)

	files, filesOutcome := p.fetcher.FetchFiles(ctx, repo, prNumber)
	parsed := parser.Normalize(meta, files)

	elapsedMS := timer.ElapsedTime().Milliseconds()
	assembled := p.assembler.Assemble(parsed, model.TriggerOnDemand, elapsedMS)

	log.Info("on-demand analysis completed",
		"files", len(parsed.Files),
		"placeholder_record", recOutcome.Placeholder,
		"placeholder_files", filesOutcome.Placeholder,
		"elapsed_time", timer.ElapsedTime().String(),
	)

	if p.forwarder != nil {
		p.forwarder.Forward(assembled)
	}

	return model.AnalyzeResponse{
		Status:  model.StatusSuccess,
		Message: fmt.Sprintf("PR %d analyzed successfully", prNumber),
		Trigger: model.TriggerOnDemand,
		Summary: model.WebhookSummary{
			PRNumber:         prNumber,
			Repository:       repo,
			FilesProcessed:   len(parsed.Files),
			TotalAdditions:   parsed.TotalAdditions,
			TotalDeletions:   parsed.TotalDeletions,
			ProcessingTimeMS: elapsedMS,
		},
		Payload:  &assembled,
		Metadata: meta,
	}, nil
}

// LastResponse exposes the last processed webhook response for debugging.
func (p *Pipeline) LastResponse() (model.WebhookResponse, bool) {
	return p.store.Last()
}

func (p *Pipeline) ignoredResponse(reason string) model.WebhookResponse {
	return model.WebhookResponse{
		Status:    model.StatusIgnored,
		Reason:    reason,
		Trigger:   model.TriggerWebhook,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func (p *Pipeline) finishWebhook(resp model.WebhookResponse, repository string) model.WebhookResponse {
	p.store.Set(resp, repository)
	if p.sink != nil {
		p.sink.Save(resp)
	}
	return resp
}
