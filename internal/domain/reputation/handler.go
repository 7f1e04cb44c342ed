package reputation

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/middleware"
	"github.com/whispr/trust-api/internal/pkg/response"
	"github.com/whispr/trust-api/internal/pkg/validator"
)

// Handler handles reputation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates reputation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Me returns the caller's own reputation
// GET /reputation/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	rep, err := h.service.GetOrCreate(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, rep)
}

// GetUser returns any user's reputation with violation history
// (moderator only)
// GET /reputation/user/{userID}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	rep, err := h.service.GetWithHistory(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}
	if rep == nil {
		response.NotFound(w, "Reputation not found")
		return
	}
	response.OK(w, rep)
}

// RecordViolation records a violation against a user (moderator only)
// POST /reputation/violations
func (h *Handler) RecordViolation(w http.ResponseWriter, r *http.Request) {
	var req RecordViolationRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	whisperID, _ := uuid.Parse(req.WhisperID)

	record, err := h.service.RecordViolation(r.Context(), userID,
		ViolationType(req.Type), Severity(req.Severity), whisperID, req.Notes)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, record)
}

// RecordSuccess credits a user for approved content (moderator only)
// POST /reputation/success
func (h *Handler) RecordSuccess(w http.ResponseWriter, r *http.Request) {
	var req RecordSuccessRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	if err := h.service.RecordSuccess(r.Context(), userID); err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]bool{"recorded": true})
}

// Enrich fills the computed fields of a classifier result (moderator only)
// POST /reputation/enrich
func (h *Handler) Enrich(w http.ResponseWriter, r *http.Request) {
	var req EnrichRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID, _ := uuid.Parse(req.UserID)
	result, err := h.service.EnrichModerationResult(r.Context(), userID, req.Result)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, result)
}

// Stats returns aggregate reputation statistics (moderator only)
// GET /reputation/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, h.service.GetStats(r.Context()))
}

// Reset restores a user's reputation to defaults (moderator only)
// POST /reputation/user/{userID}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	rep, err := h.service.ResetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrReputationNotFound) {
			response.NotFound(w, "Reputation not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, rep)
}
