package suspension

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the suspension tier
type Type string

const (
	TypeWarning   Type = "warning"
	TypeTemporary Type = "temporary"
	TypePermanent Type = "permanent"
)

// BanType is the visibility effect derived from the suspension type
type BanType string

const (
	// BanNone has no visibility effect (warnings)
	BanNone BanType = "none"
	// BanNoPosting leaves content visible but blocks posting (temporary)
	BanNoPosting BanType = "no_posting"
	// BanHidden hides the user's content entirely (permanent)
	BanHidden BanType = "hidden"
)

// permanentBanHorizon pushes a permanent suspension's end date far enough
// out that every "is active" check reduces to one date comparison. It is
// effectively permanent, not a sentinel value.
const permanentBanHorizon = 100 * 365 * 24 * time.Hour

// Reputation side effects of suspension transitions
const (
	penaltyTemporary = 10
	penaltyPermanent = 25
	restorationBonus = 5
)

// Automatic escalation tiers by violation count
const (
	autoShortSuspensionHours    = 24
	autoExtendedSuspensionHours = 7 * 24
)

// Suspension restricts a user's ability to post or be visible. Records are
// deactivated, never deleted.
type Suspension struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	Reason      string    `db:"reason" json:"reason"`
	Type        Type      `db:"type" json:"type"`
	BanType     BanType   `db:"ban_type" json:"ban_type"`
	ModeratorID uuid.UUID `db:"moderator_id" json:"moderator_id"`
	StartDate   time.Time `db:"start_date" json:"start_date"`
	EndDate     time.Time `db:"end_date" json:"end_date"`
	IsActive    bool      `db:"is_active" json:"is_active"`
}

// Active reports whether the suspension is in force at the given instant
func (s *Suspension) Active(now time.Time) bool {
	return s.IsActive && s.EndDate.After(now)
}

// banTypeFor derives the visibility effect from the suspension type
func banTypeFor(t Type) BanType {
	switch t {
	case TypeTemporary:
		return BanNoPosting
	case TypePermanent:
		return BanHidden
	default:
		return BanNone
	}
}

// Status summarizes a user's suspension state for callers
type Status struct {
	Suspended bool `json:"suspended"`
	// NonPermanent is true when at least one active suspension can still
	// expire; appeal flows use it as an eligibility signal.
	NonPermanent bool        `json:"non_permanent"`
	Suspension   *Suspension `json:"suspension,omitempty"`
}
