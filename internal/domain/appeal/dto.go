package appeal

import "github.com/google/uuid"

// CreateRequest represents a user submitting an appeal
type CreateRequest struct {
	WhisperID   uuid.UUID `json:"whisper_id" validate:"required"`
	ViolationID uuid.UUID `json:"violation_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=2000"`
	Evidence    string    `json:"evidence,omitempty" validate:"max=4000"`
}

// ReviewRequest represents a moderator decision on a pending appeal
type ReviewRequest struct {
	Action               string `json:"action" validate:"required,appeal_action"`
	Reason               string `json:"reason" validate:"required,max=2000"`
	ReputationAdjustment int    `json:"reputation_adjustment,omitempty"`
}
