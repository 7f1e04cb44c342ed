package suspension

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/pkg/response"
	"github.com/whispr/trust-api/internal/pkg/validator"
)

// Handler handles suspension HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates suspension handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create creates a suspension
// POST /suspensions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	susp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDurationRequired):
			response.BadRequest(w, "Temporary suspension requires a duration")
		case errors.Is(err, ErrDurationNotAllowed):
			response.BadRequest(w, "Permanent suspension cannot carry a duration")
		default:
			response.InternalError(w)
		}
		return
	}

	response.Created(w, susp)
}

// Review applies a moderator action to a suspension
// POST /suspensions/{id}/review
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid suspension ID")
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

	susp, err := h.service.Review(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSuspensionNotFound):
			response.NotFound(w, "Suspension not found")
		case errors.Is(err, ErrPermanentImmutable):
			response.BadRequest(w, "Cannot adjust duration of a permanent suspension")
		case errors.Is(err, ErrDurationRequired):
			response.BadRequest(w, "Action requires a duration")
		case errors.Is(err, ErrInvalidReviewAction):
			response.BadRequest(w, "Invalid action")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, susp)
}

// Status returns the suspension status of a user
// GET /suspensions/user/{userID}
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	response.OK(w, h.service.IsUserSuspended(r.Context(), userID))
}

// History lists all suspensions of a user
// GET /suspensions/user/{userID}/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	suspensions, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, suspensions)
}

// ListActive lists all active suspensions
// GET /suspensions/active
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	suspensions, err := h.service.ListActive(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, suspensions)
}
