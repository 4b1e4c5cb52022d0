package system

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers health, info and reload routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Health)
	r.Get("/info", h.Info)
	r.Post("/reload", h.Reload)
}
