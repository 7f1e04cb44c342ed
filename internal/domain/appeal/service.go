package appeal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/whispr/trust-api/internal/domain/reputation"
)

// ReputationService is the slice of the reputation engine the appeal
// workflow needs: eligibility, time limits, and adjustments.
type ReputationService interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*reputation.UserReputation, error)
	ApplyAdjustment(ctx context.Context, userID uuid.UUID, delta int, reason string) error
	GetViolation(ctx context.Context, id uuid.UUID) (*reputation.ViolationRecord, error)
	ResolveViolation(ctx context.Context, id uuid.UUID) error
}

// Service drives the appeal workflow
type Service struct {
	repo              Repository
	reputation        ReputationService
	systemModeratorID uuid.UUID
}

// NewService creates appeal service
func NewService(repo Repository, reputationSvc ReputationService, systemModeratorID uuid.UUID) *Service {
	return &Service{
		repo:              repo,
		reputation:        reputationSvc,
		systemModeratorID: systemModeratorID,
	}
}

// Create submits an appeal against a violation. Banned users and appeals
// past the level-dependent time limit are rejected. Trusted users are
// auto-approved immediately with a system moderator and a positive
// reputation adjustment.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *CreateRequest) (*Appeal, error) {
	rep, err := s.reputation.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rep.Level == reputation.LevelBanned {
		return nil, ErrNotEligible
	}

	violation, err := s.reputation.GetViolation(ctx, req.ViolationID)
	if err != nil {
		return nil, fmt.Errorf("get violation: %w", err)
	}
	if violation == nil {
		return nil, ErrViolationNotFound
	}
	if violation.UserID != userID {
		return nil, ErrNotOwner
	}

	limit := reputation.AppealTimeLimitDays(rep.Level)
	if limit == 0 || time.Since(violation.CreatedAt) > time.Duration(limit)*24*time.Hour {
		return nil, ErrPastTimeLimit
	}

	existing, err := s.repo.GetPendingByViolation(ctx, req.ViolationID)
	if err != nil {
		return nil, fmt.Errorf("check pending appeal: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAppeal
	}

	a := &Appeal{
		ID:          uuid.New(),
		UserID:      userID,
		WhisperID:   req.WhisperID,
		ViolationID: req.ViolationID,
		Reason:      req.Reason,
		Status:      StatusPending,
		SubmittedAt: time.Now(),
	}
	if req.Evidence != "" {
		a.Evidence = sql.NullString{String: req.Evidence, Valid: true}
	}

	if rep.Level == reputation.LevelTrusted {
		s.autoApprove(a)
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create appeal: %w", err)
	}

	if a.Status == StatusApproved {
		s.applyApproval(ctx, a)
		log.Info().
			Str("appeal_id", a.ID.String()).
			Str("user_id", userID.String()).
			Msg("Appeal auto-approved for trusted user")
	} else {
		log.Info().
			Str("appeal_id", a.ID.String()).
			Str("user_id", userID.String()).
			Msg("Appeal submitted")
	}

	return a, nil
}

// autoApprove transitions a fresh appeal straight to approved under the
// trusted-tier rule, bypassing manual review.
func (s *Service) autoApprove(a *Appeal) {
	now := time.Now()
	a.Status = StatusApproved
	a.ReviewedAt = sql.NullTime{Time: now, Valid: true}
	a.ReviewedBy = uuid.NullUUID{UUID: s.systemModeratorID, Valid: true}
	a.ResolutionAction = sql.NullString{String: "approve", Valid: true}
	a.ResolutionReason = sql.NullString{String: "Automatically approved for trusted user", Valid: true}
	a.ReputationAdjustment = autoApprovalAdjustment
}

// applyApproval performs the reputation side effects of an approval. Both
// writes are best-effort: a failure is logged but never rolls back the
// appeal transition.
func (s *Service) applyApproval(ctx context.Context, a *Appeal) {
	if a.ReputationAdjustment != 0 {
		if err := s.reputation.ApplyAdjustment(ctx, a.UserID, a.ReputationAdjustment, "appeal approved"); err != nil {
			log.Error().Err(err).Str("appeal_id", a.ID.String()).Msg("Appeal adjustment failed")
		}
	}
	if err := s.reputation.ResolveViolation(ctx, a.ViolationID); err != nil {
		log.Error().Err(err).Str("violation_id", a.ViolationID.String()).Msg("Failed to resolve violation")
	}
}

// Review applies a moderator decision to a pending appeal. Reviewing a
// non-pending appeal is rejected, so double reviews fail visibly.
func (s *Service) Review(ctx context.Context, appealID, moderatorID uuid.UUID, req *ReviewRequest) (*Appeal, error) {
	a, err := s.repo.GetByID(ctx, appealID)
	if err != nil {
		return nil, fmt.Errorf("get appeal: %w", err)
	}
	if a == nil {
		return nil, ErrAppealNotFound
	}
	if a.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}

	if req.Action == "approve" && req.ReputationAdjustment < 0 {
		return nil, ErrInvalidAdjustment
	}

	now := time.Now()
	a.ReviewedAt = sql.NullTime{Time: now, Valid: true}
	a.ReviewedBy = uuid.NullUUID{UUID: moderatorID, Valid: true}
	a.ResolutionAction = sql.NullString{String: req.Action, Valid: true}
	a.ResolutionReason = sql.NullString{String: req.Reason, Valid: true}
	a.ReputationAdjustment = req.ReputationAdjustment

	switch req.Action {
	case "approve":
		a.Status = StatusApproved
	case "reject":
		a.Status = StatusRejected
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("update appeal: %w", err)
	}

	if a.Status == StatusApproved {
		s.applyApproval(ctx, a)
	} else if a.ReputationAdjustment != 0 {
		// Rejections may carry a zero or negative adjustment
		if err := s.reputation.ApplyAdjustment(ctx, a.UserID, a.ReputationAdjustment, "appeal rejected"); err != nil {
			log.Error().Err(err).Str("appeal_id", a.ID.String()).Msg("Appeal adjustment failed")
		}
	}

	log.Info().
		Str("appeal_id", a.ID.String()).
		Str("action", req.Action).
		Str("moderator_id", moderatorID.String()).
		Msg("Appeal reviewed")

	return a, nil
}

// ExpireDue transitions every pending appeal past its submitter's time
// limit to expired. A failing record is logged and skipped. Returns how
// many appeals expired.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending appeals: %w", err)
	}

	expired := 0
	for _, a := range pending {
		rep, err := s.reputation.GetOrCreate(ctx, a.UserID)
		if err != nil {
			log.Error().Err(err).Str("appeal_id", a.ID.String()).Msg("Expiration sweep: reputation lookup failed")
			continue
		}

		limit := reputation.AppealTimeLimitDays(rep.Level)
		if time.Since(a.SubmittedAt) <= time.Duration(limit)*24*time.Hour {
			continue
		}

		a.Status = StatusExpired
		if err := s.repo.Update(ctx, a); err != nil {
			log.Error().Err(err).Str("appeal_id", a.ID.String()).Msg("Expiration sweep: update failed")
			continue
		}
		expired++

		log.Info().Str("appeal_id", a.ID.String()).Msg("Appeal expired")
	}

	return expired, nil
}

// Get returns an appeal by ID, nil when missing. Read failures degrade to
// nil with a logged error.
func (s *Service) Get(ctx context.Context, id uuid.UUID) *Appeal {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("appeal_id", id.String()).Msg("Appeal lookup failed")
		return nil
	}
	return a
}

// ListForUser returns a user's appeals; failures degrade to empty
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) []*Appeal {
	appeals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Appeal list failed")
		return nil
	}
	return appeals
}

// ListPending returns all pending appeals; failures degrade to empty
func (s *Service) ListPending(ctx context.Context) []*Appeal {
	appeals, err := s.repo.ListPending(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Pending appeal list failed")
		return nil
	}
	return appeals
}

// ListByViolation returns appeals against a violation; failures degrade to
// empty
func (s *Service) ListByViolation(ctx context.Context, violationID uuid.UUID) []*Appeal {
	appeals, err := s.repo.GetByViolation(ctx, violationID)
	if err != nil {
		log.Error().Err(err).Str("violation_id", violationID.String()).Msg("Appeal lookup by violation failed")
		return nil
	}
	return appeals
}
