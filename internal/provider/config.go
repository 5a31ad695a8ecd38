package provider

import (
	"slices"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

type ProviderType string

// Supported source-control provider types.
const (
	GitHub    ProviderType = "github"
	GitLab    ProviderType = "gitlab"
	Bitbucket ProviderType = "bitbucket"
)

var supportedProviderTypes = []ProviderType{GitHub, GitLab, Bitbucket}

const defaultTimeout = 30 * time.Second

// Config represents source-control provider configuration.
type Config struct {
	Type          ProviderType  `yaml:"type" env:"PROVIDER_TYPE"`
	BaseURL       string        `yaml:"base_url" env:"PROVIDER_BASE_URL"`
	Token         string        `yaml:"token" env:"PROVIDER_TOKEN"`
	WebhookSecret string        `yaml:"webhook_secret" env:"PROVIDER_WEBHOOK_SECRET"`
	Timeout       time.Duration `yaml:"timeout" env:"PROVIDER_TIMEOUT"`
}

func (c *Config) PrepareAndValidate() error {
	c.Type = ProviderType(lang.Check(string(c.Type), string(GitHub)))
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)

	if !slices.Contains(supportedProviderTypes, c.Type) {
		return errm.New("unsupported provider type: %s", c.Type)
	}

	return nil
}
