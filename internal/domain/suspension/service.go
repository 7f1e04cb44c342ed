package suspension

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReputationService is the slice of the reputation engine the state machine
// needs: penalty and restoration adjustments.
type ReputationService interface {
	ApplyAdjustment(ctx context.Context, userID uuid.UUID, delta int, reason string) error
}

// Service drives the suspension state machine
type Service struct {
	repo       Repository
	reputation ReputationService
}

// NewService creates suspension service
func NewService(repo Repository, reputation ReputationService) *Service {
	return &Service{repo: repo, reputation: reputation}
}

// Create validates and persists a suspension. Warnings are logged but never
// persisted as active records. Non-warning suspensions apply a reputation
// penalty; a failing penalty write is logged and does not block the
// transition.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Suspension, error) {
	switch req.Type {
	case TypeTemporary:
		if req.DurationHours <= 0 {
			return nil, ErrDurationRequired
		}
	case TypePermanent:
		if req.DurationHours != 0 {
			return nil, ErrDurationNotAllowed
		}
	}

	now := time.Now()
	susp := &Suspension{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Reason:      req.Reason,
		Type:        req.Type,
		BanType:     banTypeFor(req.Type),
		ModeratorID: req.ModeratorID,
		StartDate:   now,
		IsActive:    req.Type != TypeWarning,
	}

	switch req.Type {
	case TypeWarning:
		susp.EndDate = now
		log.Warn().
			Str("user_id", req.UserID.String()).
			Str("reason", req.Reason).
			Msg("User warned")
		return susp, nil
	case TypeTemporary:
		susp.EndDate = now.Add(time.Duration(req.DurationHours) * time.Hour)
	case TypePermanent:
		susp.EndDate = now.Add(permanentBanHorizon)
	}

	if err := s.repo.Create(ctx, susp); err != nil {
		return nil, fmt.Errorf("create suspension: %w", err)
	}

	penalty := penaltyTemporary
	if req.Type == TypePermanent {
		penalty = penaltyPermanent
	}
	if err := s.reputation.ApplyAdjustment(ctx, req.UserID, -penalty, "suspension created"); err != nil {
		log.Error().Err(err).Str("user_id", req.UserID.String()).Msg("Suspension penalty failed")
	}

	log.Info().
		Str("suspension_id", susp.ID.String()).
		Str("user_id", req.UserID.String()).
		Str("type", string(req.Type)).
		Time("end_date", susp.EndDate).
		Msg("Suspension created")

	return susp, nil
}

// AutomaticFor escalates by total violation count: first offense is a
// warning, then a short and an extended temporary suspension, then a
// permanent one.
func (s *Service) AutomaticFor(ctx context.Context, userID uuid.UUID, violationCount int, reason string) (*Suspension, error) {
	req := &CreateRequest{
		UserID: userID,
		Reason: reason,
	}

	switch {
	case violationCount <= 1:
		req.Type = TypeWarning
	case violationCount == 2:
		req.Type = TypeTemporary
		req.DurationHours = autoShortSuspensionHours
	case violationCount == 3:
		req.Type = TypeTemporary
		req.DurationHours = autoExtendedSuspensionHours
	default:
		req.Type = TypePermanent
	}

	return s.Create(ctx, req)
}

// Review applies a moderator action to an existing suspension
func (s *Service) Review(ctx context.Context, id uuid.UUID, req *ReviewRequest) (*Suspension, error) {
	susp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get suspension: %w", err)
	}
	if susp == nil {
		return nil, ErrSuspensionNotFound
	}

	switch req.Action {
	case "extend":
		if susp.Type == TypePermanent {
			return nil, ErrPermanentImmutable
		}
		if req.DurationHours <= 0 {
			return nil, ErrDurationRequired
		}
		susp.EndDate = susp.EndDate.Add(time.Duration(req.DurationHours) * time.Hour)
	case "reduce":
		if susp.Type == TypePermanent {
			return nil, ErrPermanentImmutable
		}
		if req.DurationHours <= 0 {
			return nil, ErrDurationRequired
		}
		susp.EndDate = susp.EndDate.Add(-time.Duration(req.DurationHours) * time.Hour)
	case "remove":
		susp.IsActive = false
	case "make_permanent":
		susp.Type = TypePermanent
		susp.BanType = BanHidden
		susp.EndDate = time.Now().Add(permanentBanHorizon)
	default:
		return nil, ErrInvalidReviewAction
	}

	if err := s.repo.Update(ctx, susp); err != nil {
		return nil, fmt.Errorf("update suspension: %w", err)
	}

	log.Info().
		Str("suspension_id", susp.ID.String()).
		Str("action", req.Action).
		Msg("Suspension reviewed")

	return susp, nil
}

// IsUserSuspended reports whether the user has an active suspension. Lookup
// failures degrade to "not suspended" with a logged error so best-effort
// escalation checks never crash on a store hiccup.
func (s *Service) IsUserSuspended(ctx context.Context, userID uuid.UUID) *Status {
	suspensions, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Active suspension lookup failed")
		return &Status{}
	}

	status := &Status{}
	now := time.Now()
	for _, susp := range suspensions {
		if !susp.Active(now) {
			continue
		}
		status.Suspended = true
		if status.Suspension == nil {
			status.Suspension = susp
		}
		if susp.Type != TypePermanent {
			status.NonPermanent = true
		}
	}
	return status
}

// ListForUser returns a user's full suspension history
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Suspension, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListActive returns all currently active suspensions
func (s *Service) ListActive(ctx context.Context) ([]*Suspension, error) {
	return s.repo.ListActive(ctx)
}

// ExpireDue deactivates every active suspension whose end date has passed.
// Expiring a temporary suspension grants a reputation restoration bonus.
// A failing record is logged and skipped. Returns how many expired.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	due, err := s.repo.ListDue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("list due suspensions: %w", err)
	}

	expired := 0
	for _, susp := range due {
		susp.IsActive = false
		if err := s.repo.Update(ctx, susp); err != nil {
			log.Error().Err(err).Str("suspension_id", susp.ID.String()).Msg("Expiration sweep: update failed")
			continue
		}
		expired++

		if susp.Type == TypeTemporary {
			if err := s.reputation.ApplyAdjustment(ctx, susp.UserID, restorationBonus, "suspension expired"); err != nil {
				log.Error().Err(err).Str("user_id", susp.UserID.String()).Msg("Restoration bonus failed")
			}
		}

		log.Info().
			Str("suspension_id", susp.ID.String()).
			Str("user_id", susp.UserID.String()).
			Str("type", string(susp.Type)).
			Msg("Suspension expired")
	}

	return expired, nil
}
