package provider

import (
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/diffsense/internal/provider/bitbucket"
	"github.com/maxbolgarin/diffsense/internal/provider/github"
	"github.com/maxbolgarin/diffsense/internal/provider/gitlab"
	"github.com/maxbolgarin/erro"
)

// New creates a new source-control provider based on the configuration.
func New(cfg Config) (interfaces.SourceProvider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	cfgForProvider := model.ProviderConfig{
		BaseURL:       cfg.BaseURL,
		Token:         cfg.Token,
		WebhookSecret: cfg.WebhookSecret,
	}

	var provider interfaces.SourceProvider
	var err error

	switch cfg.Type {
	case GitHub:
		provider, err = github.New(cfgForProvider)
	case GitLab:
		provider, err = gitlab.New(cfgForProvider)
	case Bitbucket:
		provider, err = bitbucket.New(cfgForProvider)
	default:
		return nil, erro.New("unsupported provider type: %s", cfg.Type)
	}
	if err != nil {
		return nil, erro.Wrap(err, "failed to create provider")
	}

	return provider, nil
}
