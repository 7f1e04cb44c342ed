package reputation

// RecordViolationRequest is the payload for recording a violation directly
// (moderator tooling and trusted internal callers).
type RecordViolationRequest struct {
	UserID    string `json:"user_id" validate:"required,uuid"`
	WhisperID string `json:"whisper_id" validate:"required,uuid"`
	Type      string `json:"type" validate:"required,violation_type"`
	Severity  string `json:"severity" validate:"required,severity"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// RecordSuccessRequest credits a user for approved content
type RecordSuccessRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// EnrichRequest wraps a classifier result for enrichment against a user
type EnrichRequest struct {
	UserID string            `json:"user_id" validate:"required,uuid"`
	Result *ModerationResult `json:"result" validate:"required"`
}
