// Package api serves the task store over a local HTTP JSON API.
package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"taskflow/internal/store"
)

// NewRouter creates the Chi router with all routes and middleware.
// now supplies the instant used for overdue and upcoming analytics.
func NewRouter(st *store.Store, apiKey string, now func() time.Time, logger *slog.Logger) *chi.Mux {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := NewTaskHandler(st, now, logger)

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Put("/{id}/status", h.ChangeStatus)
		})
		r.Post("/dispatch", h.Dispatch)
		r.Get("/stats", h.Stats)
	})

	return r
}
