package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/maxbolgarin/diffsense/internal/forward"
	"github.com/maxbolgarin/diffsense/internal/payload"
	"github.com/maxbolgarin/diffsense/internal/provider"
	"github.com/maxbolgarin/diffsense/internal/server"
	"github.com/maxbolgarin/errm"
)

// Config represents the main application configuration.
type Config struct {
	Server   server.Config   `yaml:"server"`
	Provider provider.Config `yaml:"provider"`
	Payload  payload.Config  `yaml:"payload"`
	Forward  forward.Config  `yaml:"forward"`
	Debug    DebugConfig     `yaml:"debug"`
}

// DebugConfig controls the debugging surface: response files on disk next to
// the in-memory last-response slot.
type DebugConfig struct {
	SaveResponses bool   `yaml:"save_responses" env:"DEBUG_SAVE_RESPONSES"`
	ResponsesDir  string `yaml:"responses_dir" env:"DEBUG_RESPONSES_DIR"`
}

// Load reads configuration from a YAML file when path is set, falling back to
// environment variables only. Component defaults are applied later by each
// component's PrepareAndValidate.
func Load(path string) (Config, error) {
	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return cfg, errm.Wrap(err, "failed to read config from environment")
		}
		return cfg, cfg.validate()
	}

	if _, err := os.Stat(path); err != nil {
		return cfg, errm.Wrap(ErrConfigNotFound, path)
	}
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, errm.Wrap(err, "failed to read config file")
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Debug.SaveResponses && c.Debug.ResponsesDir == "" {
		c.Debug.ResponsesDir = "webhook_responses"
	}
	return nil
}
