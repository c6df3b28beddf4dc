// Package server exposes cycle analysis over HTTP.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/analyze                         body: task list → report
//	GET  /v1/projects                        stored projects
//	GET  /v1/projects/{project}/tasks        a project's tasks
//	PUT  /v1/projects/{project}/tasks        replace a project's tasks
//	GET  /v1/projects/{project}/cycles       report for a project
//	GET  /v1/projects/{project}/graph.{fmt}  dot, svg or png diagram
//
// Errors are returned as {"error": {"code": "...", "message": "..."}} with
// the HTTP status implied by the code.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/taskflow/pkg/analysis"
	"github.com/matzehuels/taskflow/pkg/source"
)

// Options configures the HTTP server.
type Options struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration

	// MaxBodyBytes limits request bodies. Zero selects 1 MiB.
	MaxBodyBytes int64
}

// Server serves the analysis API for one task source.
type Server struct {
	provider source.Provider
	runner   *analysis.Runner
	logger   *log.Logger
	opts     Options
	router   chi.Router
}

// New builds a server. A nil logger selects log.Default().
func New(p source.Provider, r *analysis.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	s := &Server{provider: p, runner: r, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/projects", s.handleProjects)
		r.Route("/projects/{project}", func(r chi.Router) {
			r.Use(s.validateProject)
			r.Get("/tasks", s.handleGetTasks)
			r.Put("/tasks", s.handlePutTasks)
			r.Get("/cycles", s.handleCycles)
			r.Get("/graph.{format}", s.handleGraph)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r))
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr, "source", s.provider.Name())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
