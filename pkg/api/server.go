// Package api serves height computations and run history over HTTP.
//
// # Endpoints
//
//	POST /v1/height      compute a height; the body is a pipeline.Options
//	GET  /v1/runs        list recorded runs, newest first (?limit=N)
//	GET  /v1/runs/{id}   fetch one run
//	GET  /healthz        liveness and build information
//
// Errors are rendered as {"code": "...", "error": "..."} with a status
// derived from the error code. Every request runs under a deadline (see
// [WithRequestTimeout]); a simulation that outlives it stops with a TIMEOUT
// error and a 504.
//
// # Usage
//
//	srv := api.New(runner, logger, api.WithRequestTimeout(time.Minute))
//	err := srv.ListenAndServe(ctx, api.Options{Addr: ":8080"})
package api

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rocktower/pkg/pipeline"
)

const (
	// maxBodyBytes bounds request bodies; real jet patterns are a few KB.
	maxBodyBytes = 1 << 20

	// defaultListLimit is used when /v1/runs is called without a limit.
	defaultListLimit = 50

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second

	// DefaultRequestTimeout bounds each request when no timeout is configured.
	DefaultRequestTimeout = 2 * time.Minute
)

// Options configures the HTTP listener.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server exposes a pipeline.Runner over HTTP.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	router  chi.Router
	timeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout sets the deadline applied to every request's context.
// Non-positive values keep [DefaultRequestTimeout].
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New creates a server backed by runner. Run history is read from the
// runner's history store.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/height", s.handleHeight)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, opts Options) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, opts)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, opts Options) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}
