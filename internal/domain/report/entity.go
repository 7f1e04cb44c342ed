package report

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/whispr/trust-api/internal/domain/reputation"
)

// Category represents what a report accuses the content of. Matches the
// violation types plus a catch-all.
type Category string

const (
	CategoryHarassment    Category = "harassment"
	CategoryHateSpeech    Category = "hate_speech"
	CategoryViolence      Category = "violence"
	CategorySexualContent Category = "sexual_content"
	CategoryDrugs         Category = "drugs"
	CategorySpam          Category = "spam"
	CategoryScam          Category = "scam"
	CategoryCopyright     Category = "copyright"
	CategoryPersonalInfo  Category = "personal_info"
	CategoryMinorSafety   Category = "minor_safety"
	CategoryOther         Category = "other"
)

// Priority is the urgency tier assigned to a report
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status represents the report lifecycle
type Status string

const (
	StatusPending     Status = "pending"
	StatusUnderReview Status = "under_review"
	StatusResolved    Status = "resolved"
	StatusEscalated   Status = "escalated"
)

// Escalate moves one tier up; critical is idempotent
func (p Priority) Escalate() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh:
		return PriorityCritical
	default:
		return PriorityCritical
	}
}

// Deescalate moves one tier down; low is idempotent
func (p Priority) Deescalate() Priority {
	switch p {
	case PriorityCritical:
		return PriorityHigh
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityLow
	}
}

// Base priority per category. Categories in forcedCritical ignore the
// reporter nudge entirely.
var basePriorities = map[Category]Priority{
	CategoryHarassment:    PriorityHigh,
	CategoryHateSpeech:    PriorityHigh,
	CategoryViolence:      PriorityHigh,
	CategorySexualContent: PriorityMedium,
	CategoryDrugs:         PriorityMedium,
	CategorySpam:          PriorityLow,
	CategoryScam:          PriorityMedium,
	CategoryCopyright:     PriorityLow,
	CategoryPersonalInfo:  PriorityHigh,
	CategoryMinorSafety:   PriorityCritical,
	CategoryOther:         PriorityLow,
}

var forcedCritical = map[Category]bool{
	CategoryMinorSafety: true,
}

// Reporter score bands that nudge priority one tier
const (
	nudgeUpScore   = 90
	nudgeDownScore = 20
)

// ComputePriority derives a report's initial priority from its category and
// the reporter's score snapshot. Critical categories stay critical
// regardless of the reporter.
func ComputePriority(category Category, reporterScore int) Priority {
	if forcedCritical[category] {
		return PriorityCritical
	}

	p, ok := basePriorities[category]
	if !ok {
		p = PriorityLow
	}

	switch {
	case reporterScore >= nudgeUpScore:
		p = p.Escalate()
	case reporterScore <= nudgeDownScore:
		p = p.Deescalate()
	}
	return p
}

// Automatic escalation thresholds (unique reporters inside the rolling
// window). Whisper tiers are mutually exclusive by range: [5,15) flag,
// [15,25) delete, [25,inf) delete plus owner suspension.
const (
	whisperFlagThreshold    = 5
	whisperDeleteThreshold  = 15
	whisperSuspendThreshold = 25

	commentHideThreshold   = 3
	commentDeleteThreshold = 5

	escalationSuspensionHours = 72

	// reasonSeparator joins merged reasons on repeat reports
	reasonSeparator = "\n---\n"

	// dismissalPenalty is the reporter's score cost for a dismissed report
	dismissalPenalty = 2
)

// Report is a user complaint against a whisper or, when CommentID is set,
// against a comment on it. One reporter keeps at most one live report per
// target and category; repeat reports merge into the existing record.
type Report struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	WhisperID uuid.UUID     `db:"whisper_id" json:"whisper_id"`
	CommentID uuid.NullUUID `db:"comment_id" json:"comment_id,omitempty"`

	ReporterID          uuid.UUID `db:"reporter_id" json:"reporter_id"`
	ReporterDisplayName string    `db:"reporter_display_name" json:"reporter_display_name"`
	ReporterReputation  int       `db:"reporter_reputation" json:"reporter_reputation"`

	Category Category `db:"category" json:"category"`
	Priority Priority `db:"priority" json:"priority"`
	Status   Status   `db:"status" json:"status"`

	Reason           string         `db:"reason" json:"reason"`
	Evidence         sql.NullString `db:"evidence" json:"evidence,omitempty"`
	ReputationWeight float64        `db:"reputation_weight" json:"reputation_weight"`

	ResolutionAction    sql.NullString `db:"resolution_action" json:"resolution_action,omitempty"`
	ResolutionReason    sql.NullString `db:"resolution_reason" json:"resolution_reason,omitempty"`
	ResolutionModerator uuid.NullUUID  `db:"resolution_moderator" json:"resolution_moderator,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Live reports whether the report still counts against its target
func (r *Report) Live() bool {
	return r.Status == StatusPending || r.Status == StatusUnderReview
}

// violationTypeFor maps a report category to the violation type recorded on
// the content owner when a moderator acts on the report.
func violationTypeFor(category Category) reputation.ViolationType {
	if category == CategoryOther {
		return reputation.ViolationType("other")
	}
	return reputation.ViolationType(category)
}
