// Package server exposes the boxypic pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render  image body in, encoded artifact out
//	POST /v1/stats   image body in, JSON tree summary out
//	GET  /healthz    liveness
//	GET  /version    build information
//	GET  /metrics    Prometheus metrics
//
// Both POST routes take the tuning parameters as query arguments:
// threshold, depth, max_size, outline, greyscale, fill, grid, format,
// engine, quality and refresh. Anything not given falls back to the
// server's configured defaults.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/boxypic/pkg/pipeline"
)

// Response headers set by the API.
const (
	HeaderRequestID = "X-Request-Id"
	HeaderCache     = "X-Boxypic-Cache"
	HeaderLeaves    = "X-Boxypic-Leaves"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 10 * time.Second

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string
	// MaxUploadBytes bounds request bodies.
	MaxUploadBytes int64
	// Defaults seeds every request's pipeline options.
	Defaults pipeline.Options
	// Gatherer backs /metrics. Nil means prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	Logger   *log.Logger
}

// Server serves the HTTP API on top of a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	router chi.Router
}

// New creates a server. The runner is shared by all requests.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	s := &Server{runner: runner, cfg: cfg}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthCheck)
	r.Get("/version", handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/stats", s.handleStats)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("starting server", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("stopping server", "addr", s.cfg.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.cfg.Logger.Warn("shutting down the server failed", "addr", s.cfg.Addr, "err", err)
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
