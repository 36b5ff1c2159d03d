package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/replout/internal/config"
	"github.com/dgallion1/replout/internal/stats"
	"github.com/dgallion1/replout/internal/transform"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for replout.
type Server struct {
	router chi.Router
	tr     *transform.Transformer
	stats  *stats.Latency
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(tr *transform.Transformer, st *stats.Latency, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		tr:    tr,
		stats: st,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// API endpoints, authenticated when a key is configured.
	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/highlight", s.handleHighlight)
		r.Post("/api/json", s.handleParseJSON)
		r.Get("/api/source", s.handleSource)
		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
