// Package server exposes the graph store and selection pipeline over HTTP.
//
// Routes (all JSON):
//
//	GET    /healthz                     liveness probe
//	POST   /api/v1/graphs               store a graph
//	GET    /api/v1/graphs               list stored graphs (metadata only)
//	GET    /api/v1/graphs/{id}          fetch a stored graph
//	DELETE /api/v1/graphs/{id}          delete a stored graph
//	POST   /api/v1/graphs/{id}/layout   assign node positions
//	POST   /api/v1/graphs/{id}/select   run rectangle selection
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/graphkit/marquee/pkg/pipeline"
	"github.com/graphkit/marquee/pkg/store"
)

// Config configures the HTTP server.
type Config struct {
	Addr   string
	Store  store.Store
	Runner *pipeline.Runner
	Logger *log.Logger
}

// Server is the marquee HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
	logger *log.Logger
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	cfg.Runner.WithStore(cfg.Store)

	s := &Server{
		cfg:    cfg,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/graphs", func(r chi.Router) {
			r.Post("/", s.handleCreateGraph)
			r.Get("/", s.handleListGraphs)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetGraph)
				r.Delete("/", s.handleDeleteGraph)
				r.Post("/layout", s.handleLayout)
				r.Post("/select", s.handleSelect)
			})
		})
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("listening", "addr", s.cfg.Addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
