package session

import "github.com/go-chi/chi/v5"

// RegisterRoutes registers session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/", h.ListSessions)
		r.Get("/{id}", h.GetSession)
		r.Put("/{id}", h.UpdateSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Get("/{id}/history", h.GetHistory)
		r.Get("/{id}/export", h.ExportSession)
	})
}
