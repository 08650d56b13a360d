// Package server exposes the resolver over a local HTTP API. Overlay
// scripts call /api/resolve per scraped card; the debug surface calls
// /api/cache/clear.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmfields/ratebadge/internal/domain"
)

// Resolver is the resolution surface the API fronts.
type Resolver interface {
	Resolve(ctx context.Context, q domain.TitleQuery) *domain.ResolvedRating
	ClearCache() error
}

// Server handles the local HTTP API.
type Server struct {
	resolver Resolver
	logger   *slog.Logger
}

// New creates the API server.
func New(resolver Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{resolver: resolver, logger: logger}
}

// Routes builds the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/resolve", s.handleResolve)
		r.Post("/cache/clear", s.handleCacheClear)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleResolve answers one title lookup. A lookup that produced no
// rating is 204, never an error status: the overlay's worst case is
// "no badge", not a failure dialog.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		http.Error(w, "missing title parameter", http.StatusBadRequest)
		return
	}

	q := domain.TitleQuery{
		Title:        title,
		ExpectedType: domain.ParseMediaType(r.URL.Query().Get("type")),
	}

	rating := s.resolver.Resolve(r.Context(), q)
	if rating == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rating); err != nil {
		s.logger.Error("failed to encode rating response", "error", err)
	}
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.resolver.ClearCache(); err != nil {
		s.logger.Error("cache clear failed", "error", err)
		http.Error(w, "cache clear failed", http.StatusInternalServerError)
		return
	}
	s.logger.Info("cache cleared by user request")
	w.WriteHeader(http.StatusNoContent)
}
