package forward

import (
	"context"
	"time"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultEndpoint = "/api/v1/pr-diff"
	defaultTimeout  = 60 * time.Second

	forwardPoolSize = 20
)

// Config represents downstream forwarding configuration.
type Config struct {
	Enabled  bool          `yaml:"enabled" env:"FORWARD_ENABLED"`
	URL      string        `yaml:"url" env:"FORWARD_URL"`
	Endpoint string        `yaml:"endpoint" env:"FORWARD_ENDPOINT"`
	Timeout  time.Duration `yaml:"timeout" env:"FORWARD_TIMEOUT"`
}

func (c *Config) PrepareAndValidate() error {
	c.Endpoint = lang.Check(c.Endpoint, defaultEndpoint)
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)

	if c.Enabled && c.URL == "" {
		return errm.New("url is required when forwarding is enabled")
	}

	return nil
}

// Forwarder pushes assembled payloads to the embedding service. Delivery is
// fire-and-forget on a bounded pool: forwarding failures are logged and never
// propagated back into the pipeline.
type Forwarder struct {
	cfg  Config
	cli  *cliex.HTTP
	pool *ants.Pool
	log  logze.Logger
}

// New creates a new forwarder. A disabled config yields a forwarder whose
// Forward is a no-op.
func New(cfg Config) (*Forwarder, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	f := &Forwarder{
		cfg: cfg,
		log: logze.With("component", "forwarder"),
	}
	if !cfg.Enabled {
		return f, nil
	}

	cli, err := cliex.NewWithConfig(cliex.Config{
		BaseURL:        cfg.URL,
		RequestTimeout: cfg.Timeout,
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to create HTTP client")
	}
	f.cli = cli

	pool, err := ants.NewPool(forwardPoolSize)
	if err != nil {
		return nil, errm.Wrap(err, "failed to create ants pool")
	}
	f.pool = pool

	return f, nil
}

// Forward schedules asynchronous delivery of the payload.
func (f *Forwarder) Forward(payload model.DownstreamPayload) {
	if !f.cfg.Enabled {
		return
	}

	err := f.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), f.cfg.Timeout)
		defer cancel()

		if _, err := f.cli.Post(ctx, f.cfg.Endpoint, payload); err != nil {
			f.log.Err(err, "failed to forward payload",
				"repository", payload.PRMetadata.Repository,
				"pr_number", payload.PRMetadata.PRNumber)
			return
		}

		f.log.Debug("payload forwarded",
			"repository", payload.PRMetadata.Repository,
			"pr_number", payload.PRMetadata.PRNumber)
	})
	if err != nil {
		f.log.Err(err, "failed to schedule payload forwarding")
	}
}

// Stop releases the worker pool.
func (f *Forwarder) Stop() {
	if f.pool != nil {
		f.pool.Release()
	}
}
