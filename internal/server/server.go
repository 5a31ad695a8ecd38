package server

import (
	"context"
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/diffsense/internal/model"
	"github.com/maxbolgarin/diffsense/internal/model/interfaces"
	"github.com/maxbolgarin/diffsense/internal/pipeline"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"
)

const (
	webhookEndpoint = "/webhook/pr-event"
	analyzeEndpoint = "/api/analyze-pr"
	debugEndpoint   = "/debug/last-webhook-response"

	serviceName = "diffsense"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// authHeaders are the header names carrying webhook signatures, in lookup order.
var authHeaders = []string{
	"X-Hub-Signature-256", // GitHub
	"X-Hub-Signature",     // GitHub (legacy)
	"X-Gitlab-Token",      // GitLab
	"Authorization",       // Generic
}

// Server exposes the pipeline over HTTP: the webhook entry point, the
// on-demand analysis endpoint and the debugging surface.
type Server struct {
	provider interfaces.SourceProvider
	pipeline *pipeline.Pipeline
	config   Config
	version  string
	log      logze.Logger
	server   *servex.Server
}

// New creates a new server.
func New(cfg Config, provider interfaces.SourceProvider, pl *pipeline.Pipeline, version string) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}

	log := logze.With("module", "server")

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.Timeout),
		servex.WithIdleTimeout(cfg.Timeout*2),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create server")
	}

	s := &Server{
		provider: provider,
		pipeline: pl,
		config:   cfg,
		version:  version,
		log:      log,
		server:   server,
	}

	server.HandleFunc(webhookEndpoint, s.handleWebhook)
	server.HandleFunc(analyzeEndpoint, s.handleAnalyze)
	server.HandleFunc(debugEndpoint, s.handleDebug)
	server.HandleFunc("/", s.handleRoot)

	return s, nil
}

// Start starts the server.
func (s *Server) Start(ctx context.Context) error {
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address)
	}
	return s.server.StartHTTP(s.config.Address)
}

// Stop stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleWebhook handles inbound PR webhook deliveries. The caller always gets
// a 200-class acknowledgment unless an internal fault occurs: irrelevant and
// malformed deliveries are reported as "ignored", never as failures.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodPost {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	body, err := ctx.Read()
	if err != nil {
		ctx.BadRequest(err, "failed to read webhook body")
		return
	}

	if err := s.provider.ValidateWebhook(body, s.getAuthFromHeaders(r)); err != nil {
		ctx.Unauthorized(err, "webhook validation failed")
		return
	}

	var delivery model.RawDelivery
	if err := json.Unmarshal(body, &delivery); err != nil {
		// Malformed JSON is insufficient input, a benign outcome on this path.
		resp := model.WebhookResponse{
			Status:  model.StatusIgnored,
			Reason:  "invalid JSON payload: " + err.Error(),
			Trigger: model.TriggerWebhook,
		}
		ctx.Response(http.StatusOK, resp)
		return
	}

	resp := s.pipeline.ProcessWebhook(r.Context(), delivery)
	ctx.Response(http.StatusOK, resp)
}

// handleAnalyze handles on-demand PR analysis requests: query parameters
// pr_id (positive integer) and repo ("owner/name").
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	if r.Method != http.MethodPost {
		ctx.Response(http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	repo := query.Get("repo")

	prNumber, err := strconv.Atoi(query.Get("pr_id"))
	if err != nil {
		ctx.BadRequest(err, "pr_id must be a positive integer")
		return
	}

	resp, err := s.pipeline.AnalyzePR(r.Context(), repo, prNumber)
	if err != nil {
		if model.IsValidation(err) {
			ctx.BadRequest(err, err.Error())
			return
		}
		ctx.InternalServerError(err, "failed to analyze PR")
		return
	}

	ctx.Response(http.StatusOK, resp)
}

// handleDebug returns the last processed webhook response. Best-effort
// debugging aid: under concurrent deliveries the value may belong to any of
// the racing requests.
func (s *Server) handleDebug(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	resp, ok := s.pipeline.LastResponse()
	if !ok {
		ctx.Response(http.StatusOK, map[string]any{
			"message":  "no webhook processed yet - trigger a PR event to see response",
			"response": nil,
		})
		return
	}

	ctx.Response(http.StatusOK, map[string]any{
		"message":  "last processed webhook response",
		"response": resp,
	})
}

// handleRoot returns service info.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)

	ctx.Response(http.StatusOK, map[string]any{
		"service": serviceName,
		"version": s.version,
		"status":  "running",
		"endpoints": map[string]string{
			"webhook":    "POST " + webhookEndpoint,
			"analyze_pr": "POST " + analyzeEndpoint + "?pr_id={n}&repo={owner/name}",
			"debug":      "GET " + debugEndpoint,
			"health":     "GET /health",
		},
	})
}

// getAuthFromHeaders extracts the signature token from request headers.
func (s *Server) getAuthFromHeaders(r *http.Request) string {
	for _, header := range authHeaders {
		if value := r.Header.Get(header); value != "" {
			return value
		}
	}
	return ""
}
