package appeal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns appeal routes
func (h *Handler) Routes(authMiddleware, moderatorMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)

	r.Group(func(r chi.Router) {
		r.Use(moderatorMiddleware)
		r.Get("/pending", h.ListPending)
		r.Post("/{id}/review", h.Review)
	})

	r.Get("/{id}", h.Get)

	return r
}
