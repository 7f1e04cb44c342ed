package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/whispr/trust-api/internal/domain/reputation"
	"github.com/whispr/trust-api/internal/domain/suspension"
	"github.com/whispr/trust-api/internal/domain/whisper"
)

// Owners below this score with a flagged-level reputation get the automatic
// suspension ladder applied on top of content escalation.
const userEscalationScore = 30

// checkWhisperEscalation runs the community-consensus ladder after a
// whisper report lands. All actions are best-effort: failures are logged
// and never surface to the reporter.
//
// Tiers by unique reporters in the rolling window: flag, delete, delete
// plus a temporary owner suspension. Owners already under an active
// suspension are left alone.
func (s *Service) checkWhisperEscalation(ctx context.Context, w *whisper.Whisper) {
	if w == nil {
		return
	}
	if s.suspensions.IsUserSuspended(ctx, w.OwnerID).Suspended {
		return
	}

	since := time.Now().AddDate(0, 0, -s.windowDays)
	count, err := s.repo.CountUniqueWhisperReporters(ctx, w.ID, since)
	if err != nil {
		log.Error().Err(err).Str("whisper_id", w.ID.String()).Msg("Reporter count failed, escalation skipped")
		return
	}

	switch {
	case count >= whisperSuspendThreshold:
		s.deleteWhisperForConsensus(ctx, w, count, reputation.SeverityCritical)
		if _, err := s.suspensions.Create(ctx, &suspension.CreateRequest{
			UserID:        w.OwnerID,
			Reason:        "Community reports exceeded the removal threshold",
			Type:          suspension.TypeTemporary,
			DurationHours: escalationSuspensionHours,
		}); err != nil {
			log.Error().Err(err).Str("user_id", w.OwnerID.String()).Msg("Escalation suspension failed")
		}

	case count >= whisperDeleteThreshold:
		s.deleteWhisperForConsensus(ctx, w, count, reputation.SeverityHigh)

	case count >= whisperFlagThreshold:
		if w.Flagged {
			return
		}
		if err := s.content.FlagWhisper(ctx, w.ID); err != nil {
			log.Error().Err(err).Str("whisper_id", w.ID.String()).Msg("Whisper flag failed")
			return
		}
		if _, err := s.reputation.RecordViolation(ctx, w.OwnerID,
			reputation.ViolationWhisperFlagged, reputation.SeverityMedium, w.ID,
			"flagged by community reports"); err != nil {
			log.Error().Err(err).Str("user_id", w.OwnerID.String()).Msg("Flag violation record failed")
		}
		log.Warn().
			Str("whisper_id", w.ID.String()).
			Int("reporters", count).
			Msg("Whisper flagged by community consensus")

	default:
		return
	}

	s.checkUserEscalation(ctx, w.OwnerID)
}

func (s *Service) deleteWhisperForConsensus(ctx context.Context, w *whisper.Whisper, count int, severity reputation.Severity) {
	if err := s.content.DeleteWhisper(ctx, w.ID); err != nil {
		log.Error().Err(err).Str("whisper_id", w.ID.String()).Msg("Whisper deletion failed")
		return
	}
	if _, err := s.reputation.RecordViolation(ctx, w.OwnerID,
		reputation.ViolationWhisperDeleted, severity, w.ID,
		"deleted by community reports"); err != nil {
		log.Error().Err(err).Str("user_id", w.OwnerID.String()).Msg("Deletion violation record failed")
	}
	log.Warn().
		Str("whisper_id", w.ID.String()).
		Int("reporters", count).
		Msg("Whisper deleted by community consensus")
}

// checkCommentEscalation mirrors the whisper ladder at smaller thresholds:
// hide, then delete.
func (s *Service) checkCommentEscalation(ctx context.Context, c *whisper.Comment) {
	if c == nil {
		return
	}
	if s.suspensions.IsUserSuspended(ctx, c.AuthorID).Suspended {
		return
	}

	since := time.Now().AddDate(0, 0, -s.windowDays)
	count, err := s.repo.CountUniqueCommentReporters(ctx, c.ID, since)
	if err != nil {
		log.Error().Err(err).Str("comment_id", c.ID.String()).Msg("Reporter count failed, escalation skipped")
		return
	}

	switch {
	case count >= commentDeleteThreshold:
		if err := s.content.DeleteComment(ctx, c.ID); err != nil {
			log.Error().Err(err).Str("comment_id", c.ID.String()).Msg("Comment deletion failed")
			return
		}
		if _, err := s.reputation.RecordViolation(ctx, c.AuthorID,
			reputation.ViolationCommentDeleted, reputation.SeverityMedium, c.WhisperID,
			"comment deleted by community reports"); err != nil {
			log.Error().Err(err).Str("user_id", c.AuthorID.String()).Msg("Deletion violation record failed")
		}
		log.Warn().
			Str("comment_id", c.ID.String()).
			Int("reporters", count).
			Msg("Comment deleted by community consensus")

	case count >= commentHideThreshold:
		if c.Hidden {
			return
		}
		if err := s.content.HideComment(ctx, c.ID); err != nil {
			log.Error().Err(err).Str("comment_id", c.ID.String()).Msg("Comment hide failed")
			return
		}
		if _, err := s.reputation.RecordViolation(ctx, c.AuthorID,
			reputation.ViolationCommentHidden, reputation.SeverityLow, c.WhisperID,
			"comment hidden by community reports"); err != nil {
			log.Error().Err(err).Str("user_id", c.AuthorID.String()).Msg("Hide violation record failed")
		}

	default:
		return
	}

	s.checkUserEscalation(ctx, c.AuthorID)
}

// checkUserEscalation applies the automatic suspension ladder to owners
// whose reputation has collapsed under repeated violations.
func (s *Service) checkUserEscalation(ctx context.Context, userID uuid.UUID) {
	rep, err := s.reputation.GetOrCreate(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("User escalation: reputation lookup failed")
		return
	}
	if rep.Level != reputation.LevelFlagged || rep.Score >= userEscalationScore {
		return
	}

	count, err := s.reputation.CountViolations(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("User escalation: violation count failed")
		return
	}

	if _, err := s.suspensions.AutomaticFor(ctx, userID, count, "repeated community reports"); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Automatic suspension failed")
	}
}
