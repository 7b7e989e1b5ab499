package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the API router.
func SetupRoutes(h *Handlers, hc *HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	if hc != nil {
		r.Get("/health", hc.HandleHealth)
		r.Get("/health/live", hc.HandleLiveness)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/usage-report", h.GetUsageReport)
		r.Post("/usage-report/run", h.RunUsageReport)

		r.Get("/newsletters/{id}/clicks", h.GetNewsletterClicks)
		r.Post("/newsletters/{id}/rewrite", h.RewriteNewsletterHTML)

		r.Route("/layouts", func(r chi.Router) {
			r.Get("/", h.ListLayouts)
			r.Post("/", h.CreateLayout)
			r.Get("/{id}", h.GetLayout)
			r.Put("/{id}", h.UpdateLayout)
			r.Delete("/{id}", h.DeleteLayout)
		})
	})

	return r
}
