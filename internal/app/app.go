package app

import (
	"context"

	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/diffsense/internal/config"
	"github.com/maxbolgarin/diffsense/internal/forward"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/diffsense/internal/payload"
	"github.com/maxbolgarin/diffsense/internal/pipeline"
	"github.com/maxbolgarin/diffsense/internal/provider"
	"github.com/maxbolgarin/diffsense/internal/record"
	"github.com/maxbolgarin/diffsense/internal/server"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// Version is set at build time.
var Version = "1.0.0"

// DiffSense is the main service that orchestrates all components.
type DiffSense struct {
	provider interfaces.SourceProvider
	pipeline *pipeline.Pipeline
	server   *server.Server

	cfg config.Config
	log logze.Logger
}

// New creates a new diff ingestion service.
func New(ctx contem.Context, cfg config.Config) (*DiffSense, error) {
	service := &DiffSense{
		cfg: cfg,
		log: logze.With("component", "app"),
	}

	if err := service.init(ctx, cfg); err != nil {
		return nil, errm.Wrap(err, "failed to initialize service")
	}

	return service, nil
}

// Start starts the HTTP server.
func (s *DiffSense) Start(ctx context.Context) error {
	if err := s.server.Start(ctx); err != nil {
		return errm.Wrap(err, "failed to start server")
	}
	return nil
}

func (s *DiffSense) init(ctx contem.Context, cfg config.Config) (err error) {
	// Create VCS provider
	s.provider, err = provider.New(cfg.Provider)
	if err != nil {
		return errm.Wrap(err, "failed to create VCS provider")
	}
	fetcher := provider.NewFetcher(s.provider, cfg.Provider.Timeout)

	// Create payload assembler with the stub symbol extractor
	assembler, err := payload.New(cfg.Payload, nil)
	if err != nil {
		return errm.Wrap(err, "failed to create payload assembler")
	}

	store := record.NewStore()

	var sink *record.FileSink
	if cfg.Debug.SaveResponses {
		sink, err = record.NewFileSink(cfg.Debug.ResponsesDir)
		if err != nil {
			return errm.Wrap(err, "failed to create response file sink")
		}
		ctx.Add(func(context.Context) error {
			sink.Stop()
			return nil
		})
	}

	forwarder, err := forward.New(cfg.Forward)
	if err != nil {
		return errm.Wrap(err, "failed to create forwarder")
	}
	ctx.Add(func(context.Context) error {
		forwarder.Stop()
		return nil
	})

	// Central orchestrator shared by the webhook and on-demand entry points
	s.pipeline = pipeline.New(fetcher, assembler, store, sink, forwarder)

	s.server, err = server.New(cfg.Server, s.provider, s.pipeline, Version)
	if err != nil {
		return errm.Wrap(err, "failed to create server")
	}
	ctx.Add(s.server.Stop)

	return nil
}
