package reputation

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service owns score/level derivation, violation impact, and recovery math
type Service struct {
	repo  Repository
	cache *Cache
}

// NewService creates reputation service
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetOrCreate returns the user's reputation, creating the default record on
// first lookup. Read failures degrade to an in-memory default so scoring
// paths never crash on a transient store error.
func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*UserReputation, error) {
	if rep := s.cache.Get(ctx, userID); rep != nil {
		return rep, nil
	}

	rep, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Reputation lookup failed, using defaults")
		return NewDefault(userID), nil
	}

	if rep == nil {
		rep = NewDefault(userID)
		if err := s.repo.Create(ctx, rep); err != nil {
			log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to persist default reputation")
		}
	}

	s.cache.Set(ctx, rep)
	return rep, nil
}

// GetWithHistory returns a reputation including its violation history.
// Returns nil when the user has no reputation record.
func (s *Service) GetWithHistory(ctx context.Context, userID uuid.UUID) (*UserReputation, error) {
	rep, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reputation: %w", err)
	}
	if rep == nil {
		return nil, nil
	}

	history, err := s.repo.ListViolations(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to load violation history")
		history = nil
	}
	rep.ViolationHistory = history
	return rep, nil
}

// RecordViolation applies a violation to the user: score drops by the
// violation impact, the record is appended, and the level is recomputed.
func (s *Service) RecordViolation(ctx context.Context, userID uuid.UUID, vtype ViolationType, severity Severity, whisperID uuid.UUID, notes string) (*ViolationRecord, error) {
	rep, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	record := &ViolationRecord{
		ID:            uuid.New(),
		UserID:        userID,
		WhisperID:     whisperID,
		ViolationType: vtype,
		Severity:      severity,
		CreatedAt:     now,
	}
	if notes != "" {
		record.Notes = sql.NullString{String: notes, Valid: true}
	}

	rep.Score = clampScore(rep.Score - ViolationImpact(vtype, severity))
	rep.Level = levelOf(rep.Score)
	rep.FlaggedWhispers++
	if vtype == ViolationWhisperDeleted || vtype == ViolationCommentDeleted {
		rep.RejectedWhispers++
	}
	rep.LastViolation = sql.NullTime{Time: now, Valid: true}

	if err := s.repo.AppendViolation(ctx, record); err != nil {
		return nil, fmt.Errorf("append violation: %w", err)
	}
	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update reputation: %w", err)
	}
	s.cache.Invalidate(ctx, userID)

	log.Info().
		Str("user_id", userID.String()).
		Str("violation_type", string(vtype)).
		Str("severity", string(severity)).
		Int("score", rep.Score).
		Str("level", string(rep.Level)).
		Msg("Violation recorded")

	return record, nil
}

// RecordSuccess rewards approved content with one recovery-rate step
func (s *Service) RecordSuccess(ctx context.Context, userID uuid.UUID) error {
	rep, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	rep.Score = clampScore(rep.Score + int(math.Round(RecoveryRate(rep.Score))))
	rep.Level = levelOf(rep.Score)
	rep.ApprovedWhispers++
	rep.TotalWhispers++

	if err := s.repo.Update(ctx, rep); err != nil {
		return fmt.Errorf("update reputation: %w", err)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// ApplyAdjustment shifts a user's score by delta (positive or negative),
// clamped to the valid range. Used for suspension penalties, restoration
// bonuses, appeal approvals, and report-dismissal penalties.
func (s *Service) ApplyAdjustment(ctx context.Context, userID uuid.UUID, delta int, reason string) error {
	if delta == 0 {
		return nil
	}

	rep, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	rep.Score = clampScore(rep.Score + delta)
	rep.Level = levelOf(rep.Score)

	if err := s.repo.Update(ctx, rep); err != nil {
		return fmt.Errorf("update reputation: %w", err)
	}
	s.cache.Invalidate(ctx, userID)

	log.Info().
		Str("user_id", userID.String()).
		Int("delta", delta).
		Int("score", rep.Score).
		Str("reason", reason).
		Msg("Reputation adjusted")
	return nil
}

// RunRecoverySweep grants idle-time recovery points to every eligible
// reputation. A failing record is logged and skipped, never aborting the
// sweep. Returns how many reputations were updated.
func (s *Service) RunRecoverySweep(ctx context.Context) (int, error) {
	reps, err := s.repo.ListRecoverable(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recoverable: %w", err)
	}

	updated := 0
	for _, rep := range reps {
		if !rep.LastViolation.Valid || rep.Score >= ScoreMax || RecoveryRate(rep.Score) == 0 {
			continue
		}

		points := RecoveryPoints(rep, DaysSinceLastViolation(rep))
		if points == 0 {
			continue
		}

		rep.Score = clampScore(rep.Score + points)
		rep.Level = levelOf(rep.Score)

		if err := s.repo.Update(ctx, rep); err != nil {
			log.Error().Err(err).Str("user_id", rep.UserID.String()).Msg("Recovery sweep: update failed")
			continue
		}
		s.cache.Invalidate(ctx, rep.UserID)
		updated++
	}

	return updated, nil
}

// EnrichModerationResult fills the computed fields of a classifier result
// for the given user: aggregate impact, appeal eligibility, time limit,
// penalty multiplier, and auto-appeal threshold.
func (s *Service) EnrichModerationResult(ctx context.Context, userID uuid.UUID, result *ModerationResult) (*ModerationResult, error) {
	rep, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	result.ReputationImpact = AggregateImpact(result, rep.Level)
	result.Appealable = IsAppealable(result, rep.Level)
	result.AppealTimeLimit = AppealTimeLimitDays(rep.Level)
	result.PenaltyMultiplier = PenaltyMultiplier(rep.Level)
	result.AutoAppealThreshold = AutoAppealThreshold(rep.Level)
	return result, nil
}

// GetViolation looks up a single violation record
func (s *Service) GetViolation(ctx context.Context, id uuid.UUID) (*ViolationRecord, error) {
	return s.repo.GetViolation(ctx, id)
}

// ResolveViolation marks a violation as resolved (appeal approved)
func (s *Service) ResolveViolation(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkViolationResolved(ctx, id)
}

// CountViolations returns the user's total recorded violation count
func (s *Service) CountViolations(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountViolations(ctx, userID)
}

// GetStats returns aggregate reputation statistics. Failures degrade to an
// empty stats block.
func (s *Service) GetStats(ctx context.Context) *Stats {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Reputation stats query failed")
		return &Stats{}
	}
	return stats
}

// ResetUser restores a reputation to defaults by administrative action.
// Violation history is append-only and survives the reset.
func (s *Service) ResetUser(ctx context.Context, userID uuid.UUID) (*UserReputation, error) {
	rep, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reputation: %w", err)
	}
	if rep == nil {
		return nil, ErrReputationNotFound
	}

	rep.Score = DefaultScore
	rep.Level = LevelStandard
	rep.TotalWhispers = 0
	rep.ApprovedWhispers = 0
	rep.FlaggedWhispers = 0
	rep.RejectedWhispers = 0
	rep.LastViolation = sql.NullTime{}

	if err := s.repo.Update(ctx, rep); err != nil {
		return nil, fmt.Errorf("update reputation: %w", err)
	}
	s.cache.Invalidate(ctx, userID)

	log.Info().Str("user_id", userID.String()).Msg("Reputation reset to defaults")
	return rep, nil
}
