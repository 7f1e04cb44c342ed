package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/whispr/trust-api/internal/domain/reputation"
	"github.com/whispr/trust-api/internal/domain/suspension"
	"github.com/whispr/trust-api/internal/domain/whisper"
)

// ReputationService is the slice of the reputation engine the reporting
// engine needs: reporter snapshots, violation recording, and adjustments.
type ReputationService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*reputation.UserReputation, error)
	RecordViolation(ctx context.Context, userID uuid.UUID, vtype reputation.ViolationType, severity reputation.Severity, whisperID uuid.UUID, notes string) (*reputation.ViolationRecord, error)
	ApplyAdjustment(ctx context.Context, userID uuid.UUID, delta int, reason string) error
	CountViolations(ctx context.Context, userID uuid.UUID) (int, error)
}

// SuspensionService is the slice of the suspension state machine used for
// escalation and resolution side effects.
type SuspensionService interface {
	Create(ctx context.Context, req *suspension.CreateRequest) (*suspension.Suspension, error)
	AutomaticFor(ctx context.Context, userID uuid.UUID, violationCount int, reason string) (*suspension.Suspension, error)
	IsUserSuspended(ctx context.Context, userID uuid.UUID) *suspension.Status
}

// ContentStore gives the reporting engine access to the reported content
type ContentStore interface {
	GetWhisper(ctx context.Context, id uuid.UUID) (*whisper.Whisper, error)
	FlagWhisper(ctx context.Context, id uuid.UUID) error
	DeleteWhisper(ctx context.Context, id uuid.UUID) error
	GetComment(ctx context.Context, id uuid.UUID) (*whisper.Comment, error)
	HideComment(ctx context.Context, id uuid.UUID) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

// Service drives report intake, prioritization, and escalation
type Service struct {
	repo        Repository
	reputation  ReputationService
	suspensions SuspensionService
	content     ContentStore
	windowDays  int
}

// NewService creates report service. windowDays is the rolling window for
// unique-reporter escalation counts.
func NewService(repo Repository, reputationSvc ReputationService, suspensionSvc SuspensionService, content ContentStore, windowDays int) *Service {
	return &Service{
		repo:        repo,
		reputation:  reputationSvc,
		suspensions: suspensionSvc,
		content:     content,
		windowDays:  windowDays,
	}
}

// Create files a report against a whisper. Banned reporters are rejected.
// A repeat report by the same reporter for the same target and category
// merges into the existing record and bumps its priority one tier.
func (s *Service) Create(ctx context.Context, reporterID uuid.UUID, displayName string, req *CreateRequest) (*Report, error) {
	whisperID, err := uuid.Parse(req.WhisperID)
	if err != nil {
		return nil, ErrWhisperNotFound
	}

	w, err := s.content.GetWhisper(ctx, whisperID)
	if err != nil {
		return nil, fmt.Errorf("get whisper: %w", err)
	}
	if w == nil {
		return nil, ErrWhisperNotFound
	}

	rep, err := s.submit(ctx, reporterID, displayName, whisperID, uuid.NullUUID{}, Category(req.Category), req.Reason, req.Evidence)
	if err != nil {
		return nil, err
	}

	s.checkWhisperEscalation(ctx, w)
	return rep, nil
}

// CreateForComment files a report against a comment
func (s *Service) CreateForComment(ctx context.Context, reporterID uuid.UUID, displayName string, req *CreateCommentRequest) (*Report, error) {
	whisperID, err := uuid.Parse(req.WhisperID)
	if err != nil {
		return nil, ErrWhisperNotFound
	}
	commentID, err := uuid.Parse(req.CommentID)
	if err != nil {
		return nil, ErrCommentNotFound
	}

	c, err := s.content.GetComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c == nil {
		return nil, ErrCommentNotFound
	}

	rep, err := s.submit(ctx, reporterID, displayName, whisperID,
		uuid.NullUUID{UUID: commentID, Valid: true}, Category(req.Category), req.Reason, req.Evidence)
	if err != nil {
		return nil, err
	}

	s.checkCommentEscalation(ctx, c)
	return rep, nil
}

// submit is the shared intake path for whisper and comment reports
func (s *Service) submit(ctx context.Context, reporterID uuid.UUID, displayName string, whisperID uuid.UUID, commentID uuid.NullUUID, category Category, reason, evidence string) (*Report, error) {
	reporter, err := s.reputation.GetOrCreate(ctx, reporterID)
	if err != nil {
		return nil, err
	}
	if reporter.Level == reputation.LevelBanned {
		return nil, ErrReporterBanned
	}

	existing, err := s.repo.GetLiveByTarget(ctx, reporterID, whisperID, commentID, category)
	if err != nil {
		return nil, fmt.Errorf("check existing report: %w", err)
	}
	if existing != nil {
		existing.Reason = existing.Reason + reasonSeparator + reason
		existing.Priority = existing.Priority.Escalate()
		existing.UpdatedAt = time.Now()
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("merge report: %w", err)
		}

		log.Info().
			Str("report_id", existing.ID.String()).
			Str("priority", string(existing.Priority)).
			Msg("Repeat report merged")
		return existing, nil
	}

	now := time.Now()
	rep := &Report{
		ID:                  uuid.New(),
		WhisperID:           whisperID,
		CommentID:           commentID,
		ReporterID:          reporterID,
		ReporterDisplayName: displayName,
		ReporterReputation:  reporter.Score,
		Category:            category,
		Priority:            ComputePriority(category, reporter.Score),
		Status:              StatusPending,
		Reason:              reason,
		ReputationWeight:    reputation.ReputationWeight(reporter.Level),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if evidence != "" {
		rep.Evidence = sql.NullString{String: evidence, Valid: true}
	}

	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	log.Info().
		Str("report_id", rep.ID.String()).
		Str("whisper_id", whisperID.String()).
		Str("category", string(category)).
		Str("priority", string(rep.Priority)).
		Msg("Report filed")

	return rep, nil
}

// HasReported answers the pre-flight duplicate check for a reporter and
// target. Read failures degrade to "not reported".
func (s *Service) HasReported(ctx context.Context, reporterID, whisperID uuid.UUID, commentID uuid.NullUUID, category Category) *HasReportedResponse {
	existing, err := s.repo.GetLiveByTarget(ctx, reporterID, whisperID, commentID, category)
	if err != nil {
		log.Error().Err(err).Str("whisper_id", whisperID.String()).Msg("Duplicate report check failed")
		return &HasReportedResponse{}
	}
	if existing == nil {
		return &HasReportedResponse{}
	}
	return &HasReportedResponse{HasReported: true, ExistingReport: existing}
}

// Get returns a report by ID, nil when missing
func (s *Service) Get(ctx context.Context, id uuid.UUID) *Report {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("report_id", id.String()).Msg("Report lookup failed")
		return nil
	}
	return rep
}

// ListMine returns the reporter's own reports; failures degrade to empty
func (s *Service) ListMine(ctx context.Context, reporterID uuid.UUID) []*Report {
	reports, err := s.repo.ListByReporter(ctx, reporterID)
	if err != nil {
		log.Error().Err(err).Str("reporter_id", reporterID.String()).Msg("Report list failed")
		return nil
	}
	return reports
}

// Queue returns the prioritized moderator queue and the unpaginated total
func (s *Service) Queue(ctx context.Context, filter *ListFilter) ([]*Report, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.ListQueue(ctx, filter)
}

// Resolve applies a moderator decision. Resolving a report that is no
// longer live is rejected. Side effects on the content and the involved
// users are best-effort: a failure is logged but the resolution stands.
func (s *Service) Resolve(ctx context.Context, reportID, moderatorID uuid.UUID, req *ResolveRequest) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	if !rep.Live() {
		return nil, ErrAlreadyResolved
	}

	rep.Status = StatusResolved
	rep.ResolutionAction = sql.NullString{String: req.Action, Valid: true}
	rep.ResolutionReason = sql.NullString{String: req.Reason, Valid: true}
	rep.ResolutionModerator = uuid.NullUUID{UUID: moderatorID, Valid: true}
	rep.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}

	s.applyResolution(ctx, rep, moderatorID, req)

	log.Info().
		Str("report_id", rep.ID.String()).
		Str("action", req.Action).
		Str("moderator_id", moderatorID.String()).
		Msg("Report resolved")

	return rep, nil
}

func (s *Service) applyResolution(ctx context.Context, rep *Report, moderatorID uuid.UUID, req *ResolveRequest) {
	switch req.Action {
	case "dismiss":
		// Dismissals cost the reporter a small score penalty
		if err := s.reputation.ApplyAdjustment(ctx, rep.ReporterID, -dismissalPenalty, "report dismissed"); err != nil {
			log.Error().Err(err).Str("reporter_id", rep.ReporterID.String()).Msg("Dismissal penalty failed")
		}

	case "warn":
		owner, err := s.targetOwner(ctx, rep)
		if err != nil {
			log.Error().Err(err).Str("report_id", rep.ID.String()).Msg("Owner lookup failed, warning skipped")
			return
		}
		if _, err := s.suspensions.Create(ctx, &suspension.CreateRequest{
			UserID:      owner,
			Reason:      req.Reason,
			Type:        suspension.TypeWarning,
			ModeratorID: moderatorID,
		}); err != nil {
			log.Error().Err(err).Str("user_id", owner.String()).Msg("Warning failed")
		}

	case "delete":
		s.deleteReportedContent(ctx, rep, req.Reason)

	case "suspend":
		owner, err := s.targetOwner(ctx, rep)
		if err != nil {
			log.Error().Err(err).Str("report_id", rep.ID.String()).Msg("Owner lookup failed, suspension skipped")
			return
		}
		s.deleteReportedContent(ctx, rep, req.Reason)
		if _, err := s.suspensions.Create(ctx, &suspension.CreateRequest{
			UserID:        owner,
			Reason:        req.Reason,
			Type:          suspension.TypeTemporary,
			DurationHours: 7 * 24,
			ModeratorID:   moderatorID,
		}); err != nil {
			log.Error().Err(err).Str("user_id", owner.String()).Msg("Resolution suspension failed")
		}
	}
}

// deleteReportedContent removes the reported whisper or comment and records
// the matching violation on the author.
func (s *Service) deleteReportedContent(ctx context.Context, rep *Report, reason string) {
	owner, err := s.targetOwner(ctx, rep)
	if err != nil {
		log.Error().Err(err).Str("report_id", rep.ID.String()).Msg("Owner lookup failed, deletion skipped")
		return
	}

	if rep.CommentID.Valid {
		if err := s.content.DeleteComment(ctx, rep.CommentID.UUID); err != nil {
			log.Error().Err(err).Str("comment_id", rep.CommentID.UUID.String()).Msg("Comment deletion failed")
			return
		}
	} else {
		if err := s.content.DeleteWhisper(ctx, rep.WhisperID); err != nil {
			log.Error().Err(err).Str("whisper_id", rep.WhisperID.String()).Msg("Whisper deletion failed")
			return
		}
	}

	if _, err := s.reputation.RecordViolation(ctx, owner,
		violationTypeFor(rep.Category), reputation.SeverityHigh, rep.WhisperID, reason); err != nil {
		log.Error().Err(err).Str("user_id", owner.String()).Msg("Violation record failed")
	}
}

// targetOwner resolves the author of the reported content. The content may
// already be gone; that is reported as an error to the caller.
func (s *Service) targetOwner(ctx context.Context, rep *Report) (uuid.UUID, error) {
	if rep.CommentID.Valid {
		c, err := s.content.GetComment(ctx, rep.CommentID.UUID)
		if err != nil {
			return uuid.Nil, err
		}
		if c == nil {
			return uuid.Nil, ErrCommentNotFound
		}
		return c.AuthorID, nil
	}

	w, err := s.content.GetWhisper(ctx, rep.WhisperID)
	if err != nil {
		return uuid.Nil, err
	}
	if w == nil {
		return uuid.Nil, ErrWhisperNotFound
	}
	return w.OwnerID, nil
}

// EscalatePriority bumps a live report one tier. A report already at
// critical transitions to the escalated status instead.
func (s *Service) EscalatePriority(ctx context.Context, reportID uuid.UUID) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	if !rep.Live() {
		return nil, ErrAlreadyResolved
	}

	if rep.Priority == PriorityCritical {
		rep.Status = StatusEscalated
	} else {
		rep.Priority = rep.Priority.Escalate()
	}
	rep.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	return rep, nil
}

// DeescalatePriority lowers a live report one tier; low is idempotent
func (s *Service) DeescalatePriority(ctx context.Context, reportID uuid.UUID) (*Report, error) {
	rep, err := s.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if rep == nil {
		return nil, ErrReportNotFound
	}
	if !rep.Live() {
		return nil, ErrAlreadyResolved
	}

	rep.Priority = rep.Priority.Deescalate()
	rep.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update report: %w", err)
	}
	return rep, nil
}
