// Package server exposes tag resolution over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness plus the current manifest generation
//	GET  /tags                    declared tags with package counts
//	GET  /resolve?tag=a&tag=b     resolve tags; format=text|requirements|yaml|toml
//	                              returns the rendered list instead of JSON
//	GET  /conflicts               every package with conflicting constraints
//	GET  /graph                   tag graph as DOT (format=svg for SVG)
//	POST /reload                  re-read the manifest and swap it in
//
// Requests always resolve against one complete manifest snapshot; a reload
// running concurrently never exposes a partially built index.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/pipeline"
)

// Server serves resolution requests against a manifest holder.
type Server struct {
	holder  *manifest.Holder
	runner  *pipeline.Runner
	logger  *log.Logger
	version string
}

// New creates a server. runner may be nil, in which case results are not
// cached.
func New(holder *manifest.Holder, runner *pipeline.Runner, logger *log.Logger, version string) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{holder: holder, runner: runner, logger: logger, version: version}
}

// Routes returns the HTTP handler for the API.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(5 * time.Second))
		r.Get("/healthz", s.Healthz)
		r.Get("/tags", s.Tags)
		r.Get("/resolve", s.Resolve)
		r.Get("/conflicts", s.Conflicts)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))
		r.Get("/graph", s.Graph)
		r.Post("/reload", s.Reload)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "manifest", s.holder.Current().Source)
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
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
