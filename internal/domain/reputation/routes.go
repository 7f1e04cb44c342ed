package reputation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns reputation routes
func (h *Handler) Routes(authMiddleware, moderatorMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(authMiddleware)

	r.Get("/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(moderatorMiddleware)
		r.Get("/stats", h.Stats)
		r.Get("/user/{userID}", h.GetUser)
		r.Post("/user/{userID}/reset", h.Reset)
		r.Post("/violations", h.RecordViolation)
		r.Post("/success", h.RecordSuccess)
		r.Post("/enrich", h.Enrich)
	})

	return r
}
