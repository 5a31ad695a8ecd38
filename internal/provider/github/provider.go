package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"golang.org/x/oauth2"
)

var _ interfaces.SourceProvider = (*Provider)(nil)

const defaultBaseURL = "https://github.com"

// Provider implements the SourceProvider interface for GitHub.
type Provider struct {
	client *github.Client
	config model.ProviderConfig
	logger logze.Logger
}

// New creates a new GitHub provider. An empty token is allowed: the client
// then runs unauthenticated against the public API.
func New(config model.ProviderConfig) (*Provider, error) {
	log := logze.With("provider", "github")

	httpClient := oauth2.NewClient(context.Background(), nil)
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)

	// Set base URL if provided (for GitHub Enterprise)
	if config.BaseURL != "" && config.BaseURL != defaultBaseURL {
		var err error
		client, err = client.WithEnterpriseURLs(config.BaseURL, config.BaseURL)
		if err != nil {
			return nil, errm.Wrap(err, "failed to create GitHub Enterprise client")
		}
	}

	return &Provider{
		client: client,
		config: config,
		logger: log,
	}, nil
}

// ValidateWebhook validates the GitHub webhook signature.
func (p *Provider) ValidateWebhook(payload []byte, signature string) error {
	if p.config.WebhookSecret == "" {
		return nil // No secret configured, skip validation
	}

	// GitHub signature format: "sha256=<signature>"
	if !strings.HasPrefix(signature, "sha256=") {
		return errm.New("invalid GitHub signature format")
	}
	expectedSignature := strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(p.config.WebhookSecret))
	mac.Write(payload)
	calculatedSignature := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expectedSignature), []byte(calculatedSignature)) {
		return errm.New("GitHub webhook signature verification failed")
	}

	return nil
}

// FetchPullRequest retrieves the pull request record for repo "owner/name".
func (p *Provider) FetchPullRequest(ctx context.Context, repo string, number int) (model.PRRecord, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return model.PRRecord{}, err
	}

	pr, _, err := p.client.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return model.PRRecord{}, errm.Wrap(err, "failed to get pull request from GitHub")
	}

	rec := model.PRRecord{
		Number:      lang.Check(pr.GetNumber(), number),
		Title:       pr.GetTitle(),
		Body:        pr.GetBody(),
		State:       lang.Check(pr.GetState(), "open"),
		AuthorLogin: pr.GetUser().GetLogin(),
		BaseRef:     pr.GetBase().GetRef(),
		HeadRef:     pr.GetHead().GetRef(),
	}
	if !pr.GetCreatedAt().IsZero() {
		rec.CreatedAt = pr.GetCreatedAt().Format("2006-01-02T15:04:05Z07:00")
	}
	if !pr.GetUpdatedAt().IsZero() {
		rec.UpdatedAt = pr.GetUpdatedAt().Format("2006-01-02T15:04:05Z07:00")
	}

	return rec, nil
}

// FetchFiles retrieves the changed files of a pull request in source order.
// Every field is defaulted at this boundary per the FileDiff invariants.
func (p *Provider) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileDiff, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &github.ListOptions{PerPage: 100}
	var allFiles []*github.CommitFile

	for {
		files, resp, err := p.client.PullRequests.ListFiles(ctx, owner, name, number, opts)
		if err != nil {
			return nil, errm.Wrap(err, "failed to list pull request files")
		}

		allFiles = append(allFiles, files...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	fileDiffs := make([]model.FileDiff, 0, len(allFiles))
	for _, file := range allFiles {
		fileDiffs = append(fileDiffs, model.FileDiff{
			FilePath:   lang.Check(file.GetFilename(), "unknown_file"),
			ChangeType: lang.Check(file.GetStatus(), "modified"),
			Additions:  max(file.GetAdditions(), 0),
			Deletions:  max(file.GetDeletions(), 0),
			Patch:      file.GetPatch(),
		})
	}

	return fileDiffs, nil
}

func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errm.New("invalid GitHub repository format, expected 'owner/name'")
	}
	return parts[0], parts[1], nil
}
