package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns report routes
func (h *Handler) Routes(authMiddleware, moderatorMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Post("/comment", h.CreateForComment)
	r.Get("/check", h.Check)
	r.Get("/mine", h.ListMine)

	r.With(moderatorMiddleware).Get("/", h.Queue)

	r.Group(func(r chi.Router) {
		r.Use(moderatorMiddleware)
		r.Post("/{id}/resolve", h.Resolve)
		r.Post("/{id}/escalate", h.Escalate)
		r.Post("/{id}/deescalate", h.Deescalate)
	})

	r.Get("/{id}", h.Get)

	return r
}
