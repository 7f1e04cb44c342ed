package suspension

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns suspension routes (moderator only)
func (h *Handler) Routes(authMiddleware, moderatorMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)
	r.Use(moderatorMiddleware)

	r.Post("/", h.Create)
	r.Get("/active", h.ListActive)
	r.Post("/{id}/review", h.Review)
	r.Get("/user/{userID}", h.Status)
	r.Get("/user/{userID}/history", h.History)

	return r
}
