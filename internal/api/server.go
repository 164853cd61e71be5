// Package api implements the filtergraph HTTP API.
//
// Routes:
//
//	GET  /healthz                       liveness probe
//	GET  /v1/filters                    registered filter kinds
//	POST /v1/graphs/configure           configure a graph description
//	GET  /v1/reports                    archived reports, newest first
//	GET  /v1/reports/{id}               one archived report
//	GET  /v1/reports/{id}/render        an archived report drawn as svg, png or dot
//
// The configure endpoint takes the description as the request body. A JSON
// content type selects the JSON encoding; anything else is read as TOML.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/filtergraph/pkg/pipeline"
)

// Defaults for Config fields left zero.
const (
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 30 * time.Second
)

// Config holds server settings.
type Config struct {
	Addr         string
	MaxBodyBytes int64         // request body limit
	Timeout      time.Duration // per-request deadline
	Logger       *log.Logger
}

// Server serves the API over a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// NewServer creates a server and registers its routes.
func NewServer(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/filters", s.handleFilters)
		r.Post("/graphs/configure", s.handleConfigure)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
		r.Get("/reports/{id}/render", s.handleRenderReport)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
