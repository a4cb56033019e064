// Package server exposes placement and transition simulation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/config"
	"github.com/matzehuels/dropkit/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

// Server serves the dropkit HTTP API.
type Server struct {
	cfg    *config.Config
	logger *log.Logger
	cache  cache.Cache
	stats  *observability.Counters
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCache stores simulation traces in c. The default caches nothing.
func WithCache(c cache.Cache) Option {
	return func(s *Server) { s.cache = c }
}

// WithStats serves c's snapshot at GET /v1/stats. Registering c as the
// global hooks is left to the caller.
func WithStats(c *observability.Counters) Option {
	return func(s *Server) { s.stats = c }
}

// New creates a server using cfg for placement and transition defaults.
func New(cfg *config.Config, logger *log.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger, cache: cache.NewNullCache()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/placement", s.handlePlacement)
		r.Post("/placement/recompute", s.handleRecompute)
		r.Post("/transition/simulate", s.handleSimulate)
		if s.stats != nil {
			r.Get("/stats", s.handleStats)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
