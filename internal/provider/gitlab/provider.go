package gitlab

import (
	"context"
	"net/http"
	"strings"

	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const defaultBaseURL = "https://gitlab.com"

var _ interfaces.SourceProvider = (*Provider)(nil)

// Provider implements the SourceProvider interface for GitLab. Repositories
// are addressed by path "owner/name", merge requests play the role of PRs.
type Provider struct {
	client *gitlab.Client
	config model.ProviderConfig
	logger logze.Logger
}

// New creates a new GitLab provider.
func New(config model.ProviderConfig) (*Provider, error) {
	logger := logze.With("provider", "gitlab")

	baseURL := lang.Check(config.BaseURL, defaultBaseURL)

	client, err := gitlab.NewClient(config.Token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create GitLab client")
	}

	return &Provider{
		client: client,
		config: config,
		logger: logger,
	}, nil
}

// ValidateWebhook validates the webhook token. GitLab sends the configured
// secret verbatim in the X-Gitlab-Token header.
func (p *Provider) ValidateWebhook(payload []byte, signature string) error {
	if p.config.WebhookSecret == "" {
		return nil // No secret configured, skip validation
	}

	if signature != p.config.WebhookSecret {
		return errm.New("invalid webhook token")
	}

	return nil
}

// FetchPullRequest retrieves the merge request record for repo "owner/name".
func (p *Provider) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error) {
	mr, resp, err := p.client.MergeRequests.GetMergeRequest(repo, number, nil, gitlab.WithContext(ctx))
	if err != nil {
		return model.PRRecord{}, errm.Wrap(err, "failed to get merge request from GitLab")
	}
	if resp.StatusCode != http.StatusOK {
		return model.PRRecord{}, errm.New("GitLab API returned status %d", resp.StatusCode)
	}

	rec := model.PRRecord{
		Number:  mr.IID,
		Title:   mr.Title,
		Body:    mr.Description,
		State:   lang.Check(mr.State, "open"),
		BaseRef: mr.TargetBranch,
		HeadRef: mr.SourceBranch,
	}
	if mr.Author != nil {
		rec.AuthorLogin = mr.Author.Username
	}
	if mr.CreatedAt != nil {
		rec.CreatedAt = mr.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if mr.UpdatedAt != nil {
		rec.UpdatedAt = mr.UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return rec, nil
}

// FetchFiles retrieves the changed files of a merge request in source order.
// GitLab serves unified diffs without per-file counters, so additions and
// deletions are counted from the diff text.
func (p *Provider) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error) {
	var allDiffs []*gitlab.MergeRequestDiff
	page := 1

	for {
		opts := &gitlab.ListMergeRequestDiffsOptions{
			ListOptions: gitlab.ListOptions{Page: page},
		}

		diffs, resp, err := p.client.MergeRequests.ListMergeRequestDiffs(repo, number, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, errm.Wrap(err, "failed to list merge request diffs")
		}
		if resp.StatusCode != http.StatusOK {
			return nil, errm.New("GitLab API returned status %d", resp.StatusCode)
		}

		allDiffs = append(allDiffs, diffs...)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	fileDiffs := make([]model.FileDiff, 0, len(allDiffs))
	for _, diff := range allDiffs {
		additions, deletions := countDiffLines(diff.Diff)
		fileDiffs = append(fileDiffs, model.FileDiff{
			FilePath:   lang.Check(diff.NewPath, lang.Check(diff.OldPath, "unknown_file")),
			ChangeType: changeType(diff),
			Additions:  additions,
			Deletions:  deletions,
			Patch:      diff.Diff,
		})
	}

	return fileDiffs, nil
}

func changeType(diff *gitlab.MergeRequestDiff) string {
	switch {
	case diff.NewFile:
		return "added"
	case diff.DeletedFile:
		return "removed"
	case diff.RenamedFile:
		return "renamed"
	}
	return "modified"
}

// countDiffLines counts added and removed lines in a unified diff, skipping
// the +++/--- file headers.
func countDiffLines(diff string) (additions, deletions int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			additions++
		case strings.HasPrefix(line, "-"):
			deletions++
		}
	}
	return additions, deletions
}
