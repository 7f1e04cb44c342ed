package appeal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/middleware"
	"github.com/whispr/trust-api/internal/pkg/response"
	"github.com/whispr/trust-api/internal/pkg/validator"
)

// Handler handles appeal HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates appeal handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create submits an appeal
// POST /appeals
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	a, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEligible):
			response.Forbidden(w, "Banned users cannot appeal")
		case errors.Is(err, ErrViolationNotFound):
			response.NotFound(w, "Violation not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "Violation belongs to another user")
		case errors.Is(err, ErrPastTimeLimit):
			response.BadRequest(w, "Appeal time limit exceeded")
		case errors.Is(err, ErrDuplicateAppeal):
			response.Conflict(w, "An appeal for this violation is already pending")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, a)
}

// Get returns a single appeal
// GET /appeals/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid appeal ID")
		return
	}

	a := h.service.Get(r.Context(), id)
	if a == nil {
		response.NotFound(w, "Appeal not found")
		return
	}

	// Users may only read their own appeals; moderators see all
	if a.UserID != middleware.GetUserID(r.Context()) && !middleware.IsModerator(r.Context()) {
		response.Forbidden(w, "Not your appeal")
		return
	}

	response.OK(w, a)
}

// ListMine lists the current user's appeals
// GET /appeals/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	response.OK(w, h.service.ListForUser(r.Context(), userID))
}

// ListPending lists pending appeals (moderator only)
// GET /appeals/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.ListPending(r.Context()))
}

// Review decides a pending appeal (moderator only)
// POST /appeals/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid appeal ID")
		return
	}

	var req ReviewRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	moderatorID := middleware.GetUserID(r.Context())
	a, err := h.service.Review(r.Context(), id, moderatorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAppealNotFound):
			response.NotFound(w, "Appeal not found")
		case errors.Is(err, ErrAlreadyReviewed):
			response.BadRequest(w, "Appeal already reviewed")
		case errors.Is(err, ErrInvalidAdjustment):
			response.BadRequest(w, "Approval requires a non-negative reputation adjustment")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, a)
}
