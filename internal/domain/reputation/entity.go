package reputation

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Level represents a reputation tier, derived solely from score
type Level string

const (
	LevelBanned   Level = "banned"
	LevelFlagged  Level = "flagged"
	LevelStandard Level = "standard"
	LevelVerified Level = "verified"
	LevelTrusted  Level = "trusted"
)

// ViolationType represents the category of a recorded policy breach
type ViolationType string

const (
	ViolationHarassment    ViolationType = "harassment"
	ViolationHateSpeech    ViolationType = "hate_speech"
	ViolationViolence      ViolationType = "violence"
	ViolationSexualContent ViolationType = "sexual_content"
	ViolationDrugs         ViolationType = "drugs"
	ViolationSpam          ViolationType = "spam"
	ViolationScam          ViolationType = "scam"
	ViolationCopyright     ViolationType = "copyright"
	ViolationPersonalInfo  ViolationType = "personal_info"
	ViolationMinorSafety   ViolationType = "minor_safety"

	// Engine-generated markers recorded by automatic escalation. They carry
	// the documented default base impact rather than a per-type one.
	ViolationWhisperFlagged ViolationType = "whisper_flagged"
	ViolationWhisperDeleted ViolationType = "whisper_deleted"
	ViolationCommentHidden  ViolationType = "comment_hidden"
	ViolationCommentDeleted ViolationType = "comment_deleted"
)

// Severity represents how serious a violation is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	// ScoreMin and ScoreMax bound every stored score
	ScoreMin = 0
	ScoreMax = 100

	// DefaultScore is assigned on first lookup
	DefaultScore = 50
)

// UserReputation tracks a user's standing. Score is clamped to [0,100] and
// Level is recomputed from Score on every mutation.
type UserReputation struct {
	UserID           uuid.UUID    `db:"user_id" json:"user_id"`
	Score            int          `db:"score" json:"score"`
	Level            Level        `db:"level" json:"level"`
	TotalWhispers    int          `db:"total_whispers" json:"total_whispers"`
	ApprovedWhispers int          `db:"approved_whispers" json:"approved_whispers"`
	FlaggedWhispers  int          `db:"flagged_whispers" json:"flagged_whispers"`
	RejectedWhispers int          `db:"rejected_whispers" json:"rejected_whispers"`
	LastViolation    sql.NullTime `db:"last_violation" json:"last_violation,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`

	// ViolationHistory is loaded separately from the violation_records
	// table; append-only, ordered by creation time.
	ViolationHistory []*ViolationRecord `db:"-" json:"violation_history,omitempty"`
}

// NewDefault returns a freshly initialized reputation for a user
func NewDefault(userID uuid.UUID) *UserReputation {
	now := time.Now()
	return &UserReputation{
		UserID:    userID,
		Score:     DefaultScore,
		Level:     LevelStandard,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ViolationRecord is a single recorded policy breach, owned by exactly one
// UserReputation.
type ViolationRecord struct {
	ID            uuid.UUID      `db:"id" json:"id"`
	UserID        uuid.UUID      `db:"user_id" json:"user_id"`
	WhisperID     uuid.UUID      `db:"whisper_id" json:"whisper_id"`
	ViolationType ViolationType  `db:"violation_type" json:"violation_type"`
	Severity      Severity       `db:"severity" json:"severity"`
	Resolved      bool           `db:"resolved" json:"resolved"`
	Notes         sql.NullString `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
}

// ModerationViolation is one classifier finding inside a ModerationResult
type ModerationViolation struct {
	Type            ViolationType `json:"type"`
	Severity        Severity      `json:"severity"`
	Confidence      float64       `json:"confidence"`
	Description     string        `json:"description,omitempty"`
	SuggestedAction string        `json:"suggested_action,omitempty"`
}

// ModerationResult is the opaque output of the external content classifier,
// enriched by the reputation engine with the computed fields below.
type ModerationResult struct {
	Status      string                `json:"status"`
	ContentRank int                   `json:"content_rank"`
	Violations  []ModerationViolation `json:"violations"`
	Confidence  float64               `json:"confidence"`

	// Computed by EnrichModerationResult
	ReputationImpact    int     `json:"reputation_impact"`
	Appealable          bool    `json:"appealable"`
	AppealTimeLimit     int     `json:"appeal_time_limit"`
	PenaltyMultiplier   float64 `json:"penalty_multiplier"`
	AutoAppealThreshold float64 `json:"auto_appeal_threshold"`
}

// Stats is an aggregate view over all reputations
type Stats struct {
	TotalUsers      int     `db:"total_users" json:"total_users"`
	AverageScore    float64 `db:"average_score" json:"average_score"`
	TrustedUsers    int     `db:"trusted_users" json:"trusted_users"`
	VerifiedUsers   int     `db:"verified_users" json:"verified_users"`
	StandardUsers   int     `db:"standard_users" json:"standard_users"`
	FlaggedUsers    int     `db:"flagged_users" json:"flagged_users"`
	BannedUsers     int     `db:"banned_users" json:"banned_users"`
	TotalViolations int     `db:"total_violations" json:"total_violations"`
}
