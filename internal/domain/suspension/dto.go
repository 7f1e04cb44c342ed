package suspension

import "github.com/google/uuid"

// CreateRequest represents a manual or automatic suspension creation
type CreateRequest struct {
	UserID        uuid.UUID `json:"user_id" validate:"required"`
	Reason        string    `json:"reason" validate:"required,max=1000"`
	Type          Type      `json:"type" validate:"required,suspension_type"`
	DurationHours int       `json:"duration_hours,omitempty" validate:"gte=0"`
	ModeratorID   uuid.UUID `json:"moderator_id,omitempty"`
}

// ReviewRequest represents a moderator action on an existing suspension
type ReviewRequest struct {
	Action        string `json:"action" validate:"required,review_action"`
	DurationHours int    `json:"duration_hours,omitempty" validate:"gte=0"`
}
