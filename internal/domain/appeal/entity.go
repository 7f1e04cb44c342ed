package appeal

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents the appeal state. Transitions are one-directional:
// pending -> approved | rejected | expired, and terminal states are final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// autoApprovalAdjustment is the score bonus granted on trusted-tier
// auto-approval.
const autoApprovalAdjustment = 5

// Appeal is a user request to reverse a moderation action
type Appeal struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	WhisperID   uuid.UUID `db:"whisper_id" json:"whisper_id"`
	ViolationID uuid.UUID `db:"violation_id" json:"violation_id"`

	Reason   string         `db:"reason" json:"reason"`
	Evidence sql.NullString `db:"evidence" json:"evidence,omitempty"`
	Status   Status         `db:"status" json:"status"`

	SubmittedAt time.Time     `db:"submitted_at" json:"submitted_at"`
	ReviewedAt  sql.NullTime  `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy  uuid.NullUUID `db:"reviewed_by" json:"reviewed_by,omitempty"`

	ResolutionAction     sql.NullString `db:"resolution_action" json:"resolution_action,omitempty"`
	ResolutionReason     sql.NullString `db:"resolution_reason" json:"resolution_reason,omitempty"`
	ReputationAdjustment int            `db:"reputation_adjustment" json:"reputation_adjustment"`
}
