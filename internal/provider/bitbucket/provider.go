package bitbucket

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

var _ interfaces.SourceProvider = (*Provider)(nil)

const defaultBaseURL = "https://api.bitbucket.org/2.0"

// Provider implements the SourceProvider interface for Bitbucket.
type Provider struct {
	config model.ProviderConfig
	log    logze.Logger
	client *cliex.HTTP
}

// New creates a new Bitbucket provider.
func New(config model.ProviderConfig) (*Provider, error) {
	if config.Token == "" {
		return nil, errm.New("Bitbucket token is required")
	}
	log := logze.With("provider", "bitbucket", "component", "provider")

	baseURL := defaultBaseURL
	if config.BaseURL != "" {
		baseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	cli, err := cliex.New(cliex.WithBaseURL(baseURL), cliex.WithLogger(log))
	if err != nil {
		return nil, errm.Wrap(err, "failed to create Bitbucket client")
	}
	cli.C().SetBasicAuth("x-auth-token", config.Token)

	return &Provider{
		client: cli,
		config: config,
		log:    log,
	}, nil
}

// ValidateWebhook validates the Bitbucket webhook signature.
func (p *Provider) ValidateWebhook(payload []byte, signature string) error {
	if p.config.WebhookSecret == "" {
		return nil // No secret configured, skip validation
	}

	mac := hmac.New(sha256.New, []byte(p.config.WebhookSecret))
	mac.Write(payload)
	expectedSignature := hex.EncodeToString(mac.Sum(nil))

	// Bitbucket might send signature with or without prefix
	cleanSignature := strings.TrimPrefix(signature, "sha256=")

	if !hmac.Equal([]byte(expectedSignature), []byte(cleanSignature)) {
		return errm.New("Bitbucket webhook signature verification failed")
	}

	return nil
}

// FetchPullRequest retrieves a pull request record from Bitbucket.
func (p *Provider) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error) {
	workspace, repoSlug, err := splitRepo(repo)
	if err != nil {
		return model.PRRecord{}, err
	}

	apiURL := fmt.Sprintf("repositories/%s/%s/pullrequests/%d", workspace, repoSlug, number)

	var pr bitbucketPullRequest
	if _, err := p.client.Get(ctx, apiURL, &pr); err != nil {
		return model.PRRecord{}, errm.Wrap(err, "failed to get pull request from Bitbucket")
	}

	return model.PRRecord{
		Number:      pr.ID,
		Title:       pr.Title,
		Body:        pr.Description,
		State:       strings.ToLower(pr.State),
		AuthorLogin: pr.Author.Username,
		BaseRef:     pr.Destination.Branch.Name,
		HeadRef:     pr.Source.Branch.Name,
		CreatedAt:   pr.CreatedOn,
		UpdatedAt:   pr.UpdatedOn,
	}, nil
}

// FetchFiles retrieves the changed files of a pull request. Per-file counters
// come from the diffstat endpoint; patches come from the raw diff, matched to
// stat records by path.
func (p *Provider) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error) {
	workspace, repoSlug, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	statURL := fmt.Sprintf("repositories/%s/%s/pullrequests/%d/diffstat", workspace, repoSlug, number)

	var files []model.FileDiff
	for statURL != "" {
		var stat bitbucketDiffStat
		if _, err := p.client.Get(ctx, statURL, &stat); err != nil {
			return nil, errm.Wrap(err, "failed to get diffstat from Bitbucket")
		}

		for _, value := range stat.Values {
			path := ""
			if value.New != nil {
				path = value.New.Path
			} else if value.Old != nil {
				path = value.Old.Path
			}

			files = append(files, model.FileDiff{
				FilePath:   path,
				ChangeType: changeType(value.Status),
				Additions:  max(value.LinesAdded, 0),
				Deletions:  max(value.LinesRemoved, 0),
			})
		}

		statURL = stat.Next
	}

	diffURL := fmt.Sprintf("repositories/%s/%s/pullrequests/%d/diff", workspace, repoSlug, number)

	resp, err := p.client.Get(ctx, diffURL)
	if err != nil {
		return nil, errm.Wrap(err, "failed to get diff from Bitbucket")
	}

	patches := splitDiffByFile(string(resp.Body()))
	for i := range files {
		files[i].Patch = patches[files[i].FilePath]
	}

	return files, nil
}

// splitDiffByFile splits a unified diff into per-file patch bodies keyed by
// the new-side path.
func splitDiffByFile(diffContent string) map[string]string {
	patches := make(map[string]string)

	currentPath := ""
	var patchLines []string
	flush := func() {
		if currentPath != "" {
			patches[currentPath] = strings.Join(patchLines, "\n")
		}
	}

	for _, line := range strings.Split(diffContent, "\n") {
		switch {
		case strings.HasPrefix(line, "diff --git"):
			flush()
			currentPath = ""
			patchLines = patchLines[:0]

		case strings.HasPrefix(line, "+++ "):
			if !strings.Contains(line, "/dev/null") {
				currentPath = strings.TrimPrefix(line, "+++ b/")
			}

		case strings.HasPrefix(line, "--- "):
			if currentPath == "" && !strings.Contains(line, "/dev/null") {
				currentPath = strings.TrimPrefix(line, "--- a/")
			}

		default:
			patchLines = append(patchLines, line)
		}
	}
	flush()

	return patches
}

func changeType(status string) string {
	switch status {
	case "added":
		return "added"
	case "removed":
		return "removed"
	case "renamed":
		return "renamed"
	default:
		return "modified"
	}
}

func splitRepo(repo string) (string, string, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 {
		return "", "", errm.New("invalid Bitbucket repository format, expected 'workspace/repo_slug'")
	}
	return parts[0], parts[1], nil
}
