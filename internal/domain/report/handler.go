package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/middleware"
	"github.com/whispr/trust-api/internal/pkg/response"
	"github.com/whispr/trust-api/internal/pkg/validator"
)

// Handler handles report HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates report handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create reports a whisper
// POST /reports
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

	rep, err := h.service.Create(r.Context(), userID, req.DisplayName, &req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	response.Created(w, rep)
}

// CreateForComment reports a comment
// POST /reports/comment
func (h *Handler) CreateForComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateCommentRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	rep, err := h.service.CreateForComment(r.Context(), userID, req.DisplayName, &req)
	if err != nil {
		h.writeCreateError(w, err)
		return
	}

	response.Created(w, rep)
}

func (h *Handler) writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReporterBanned):
		response.Forbidden(w, "Banned users cannot submit reports")
	case errors.Is(err, ErrWhisperNotFound):
		response.NotFound(w, "Whisper not found")
	case errors.Is(err, ErrCommentNotFound):
		response.NotFound(w, "Comment not found")
	default:
		response.InternalError(w)
	}
}

// Check answers whether the caller already has a live report for a target
// GET /reports/check?whisper_id=...&comment_id=...&category=...
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	whisperID, err := uuid.Parse(r.URL.Query().Get("whisper_id"))
	if err != nil {
		response.BadRequest(w, "Invalid whisper ID")
		return
	}

	var commentID uuid.NullUUID
	if raw := r.URL.Query().Get("comment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid comment ID")
			return
		}
		commentID = uuid.NullUUID{UUID: id, Valid: true}
	}

	category := Category(r.URL.Query().Get("category"))
	if err := validator.ValidateVar(string(category), "required,report_category"); err != nil {
		response.BadRequest(w, "Invalid report category")
		return
	}

	response.OK(w, h.service.HasReported(r.Context(), userID, whisperID, commentID, category))
}

// ListMine lists the caller's own reports
// GET /reports/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	response.OK(w, h.service.ListMine(r.Context(), userID))
}

// Queue returns the prioritized moderator queue (moderator only)
// GET /reports?status=...&priority=...&limit=...&offset=...
func (h *Handler) Queue(w http.ResponseWriter, r *http.Request) {
	filter := &ListFilter{
		Status:   Status(r.URL.Query().Get("status")),
		Priority: Priority(r.URL.Query().Get("priority")),
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	reports, total, err := h.service.Queue(r.Context(), filter)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.WithMeta(w, reports, response.Meta{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// Get returns a single report. Reporters may read their own; moderators
// see all.
// GET /reports/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	rep := h.service.Get(r.Context(), id)
	if rep == nil {
		response.NotFound(w, "Report not found")
		return
	}

	if rep.ReporterID != middleware.GetUserID(r.Context()) && !middleware.IsModerator(r.Context()) {
		response.Forbidden(w, "Not your report")
		return
	}

	response.OK(w, rep)
}

// Resolve applies a moderator decision (moderator only)
// POST /reports/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req ResolveRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	moderatorID := middleware.GetUserID(r.Context())
	rep, err := h.service.Resolve(r.Context(), id, moderatorID, &req)
	if err != nil {
		h.writeMutateError(w, err)
		return
	}

	response.OK(w, rep)
}

// Escalate bumps a report's priority one tier (moderator only)
// POST /reports/{id}/escalate
func (h *Handler) Escalate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	rep, err := h.service.EscalatePriority(r.Context(), id)
	if err != nil {
		h.writeMutateError(w, err)
		return
	}

	response.OK(w, rep)
}

// Deescalate lowers a report's priority one tier (moderator only)
// POST /reports/{id}/deescalate
func (h *Handler) Deescalate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	rep, err := h.service.DeescalatePriority(r.Context(), id)
	if err != nil {
		h.writeMutateError(w, err)
		return
	}

	response.OK(w, rep)
}

func (h *Handler) writeMutateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrReportNotFound):
		response.NotFound(w, "Report not found")
	case errors.Is(err, ErrAlreadyResolved):
		response.BadRequest(w, "Report already resolved")
	default:
		response.InternalError(w)
	}
}
