// Package api exposes the newsletters HTTP API: the latest usage report,
// newsletter layouts, and per-newsletter click counts.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server wraps the API router in an http.Server with sane timeouts.
type Server struct {
	handler *chi.Mux
	server  *http.Server
}

// NewServer creates the API server around the given handlers.
func NewServer(h *Handlers, hc *HealthChecker) *Server {
	return &Server{handler: SetupRoutes(h, hc)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
