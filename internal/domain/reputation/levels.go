package reputation

import (
	"math"
	"time"
)

// Base score impacts per violation type. Types absent from this table
// (including the engine-generated escalation markers) fall back to
// defaultBaseImpact.
var baseImpacts = map[ViolationType]float64{
	ViolationHarassment:    15,
	ViolationHateSpeech:    25,
	ViolationViolence:      30,
	ViolationSexualContent: 20,
	ViolationDrugs:         15,
	ViolationSpam:          5,
	ViolationScam:          20,
	ViolationCopyright:     10,
	ViolationPersonalInfo:  15,
	ViolationMinorSafety:   35,
}

var severityMultipliers = map[Severity]float64{
	SeverityLow:      0.5,
	SeverityMedium:   1.0,
	SeverityHigh:     1.5,
	SeverityCritical: 2.0,
}

const (
	defaultBaseImpact         = 10
	defaultSeverityMultiplier = 1.0

	// maxRecoveryDays caps how much idle time counts toward recovery
	maxRecoveryDays = 365
)

// LevelForScore maps a raw score to a reputation level. Stored scores are
// always pre-clamped to [0,100]; this guard only rejects direct calls with
// garbage input.
func LevelForScore(score float64) (Level, error) {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return "", ErrInvalidScore
	}
	return levelOf(int(score)), nil
}

// levelOf is the total mapping used on clamped stored scores
func levelOf(score int) Level {
	switch {
	case score >= 90:
		return LevelTrusted
	case score >= 75:
		return LevelVerified
	case score >= 50:
		return LevelStandard
	case score >= 25:
		return LevelFlagged
	default:
		return LevelBanned
	}
}

// ViolationImpact computes the score cost of a single violation
func ViolationImpact(t ViolationType, s Severity) int {
	base, ok := baseImpacts[t]
	if !ok {
		base = defaultBaseImpact
	}
	mult, ok := severityMultipliers[s]
	if !ok {
		mult = defaultSeverityMultiplier
	}
	return int(math.Round(base * mult))
}

// AggregateImpact sums the impact of every violation in a moderation result
// and scales it by the user's penalty multiplier.
func AggregateImpact(result *ModerationResult, level Level) int {
	if result == nil || len(result.Violations) == 0 {
		return 0
	}
	total := 0
	for _, v := range result.Violations {
		total += ViolationImpact(v.Type, v.Severity)
	}
	return int(math.Round(float64(total) * PenaltyMultiplier(level)))
}

// RecoveryRate returns points recovered per day at the given score
func RecoveryRate(score int) float64 {
	switch levelOf(score) {
	case LevelTrusted:
		return 2
	case LevelVerified:
		return 1.5
	case LevelStandard:
		return 1
	case LevelFlagged:
		return 0.5
	default: // banned
		return 0
	}
}

// PenaltyMultiplier scales violation impact by level
func PenaltyMultiplier(level Level) float64 {
	switch level {
	case LevelTrusted:
		return 0.5
	case LevelVerified:
		return 0.75
	case LevelStandard:
		return 1.0
	case LevelFlagged:
		return 1.5
	default: // banned or unknown
		return 2.0
	}
}

// AppealTimeLimitDays returns how many days after a violation a user at the
// given level may still appeal. Zero means no appeal.
func AppealTimeLimitDays(level Level) int {
	switch level {
	case LevelTrusted:
		return 30
	case LevelVerified:
		return 14
	case LevelStandard:
		return 7
	case LevelFlagged:
		return 3
	default: // banned or unknown
		return 0
	}
}

// AutoAppealThreshold returns the classifier-confidence ceiling below which
// an appeal is granted automatically.
func AutoAppealThreshold(level Level) float64 {
	switch level {
	case LevelTrusted:
		return 0.3
	case LevelVerified:
		return 0.5
	case LevelStandard:
		return 0.7
	case LevelFlagged:
		return 0.9
	default: // banned or unknown
		return 1.0
	}
}

// ReputationWeight is the multiplier a user's reports carry
func ReputationWeight(level Level) float64 {
	switch level {
	case LevelTrusted:
		return 2.0
	case LevelVerified:
		return 1.5
	case LevelStandard:
		return 1.0
	case LevelFlagged:
		return 0.5
	default: // banned or unknown
		return 0.25
	}
}

// IsAppealable reports whether a moderation result can be appealed by a user
// at the given level. Banned users never appeal; flagged users cannot appeal
// results carrying any critical violation.
func IsAppealable(result *ModerationResult, level Level) bool {
	if level == LevelBanned {
		return false
	}
	if level == LevelFlagged && result != nil {
		for _, v := range result.Violations {
			if v.Severity == SeverityCritical {
				return false
			}
		}
	}
	return true
}

// DaysSinceLastViolation returns full days since the last recorded
// violation, capped at maxRecoveryDays. Users with no violation history get
// the cap.
func DaysSinceLastViolation(rep *UserReputation) int {
	if rep == nil || !rep.LastViolation.Valid {
		return maxRecoveryDays
	}
	days := int(math.Ceil(time.Since(rep.LastViolation.Time).Hours() / 24))
	if days < 0 {
		return 0
	}
	if days > maxRecoveryDays {
		return maxRecoveryDays
	}
	return days
}

// RecoveryPoints returns how many points a reputation regains after the
// given number of idle days, never pushing the score past ScoreMax.
func RecoveryPoints(rep *UserReputation, days int) int {
	if rep == nil {
		return 0
	}
	points := int(math.Round(float64(days) * RecoveryRate(rep.Score)))
	if room := ScoreMax - rep.Score; points > room {
		points = room
	}
	if points < 0 {
		return 0
	}
	return points
}

// clampScore bounds a score to [ScoreMin, ScoreMax]
func clampScore(score int) int {
	if score < ScoreMin {
		return ScoreMin
	}
	if score > ScoreMax {
		return ScoreMax
	}
	return score
}
