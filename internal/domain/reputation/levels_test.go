package reputation_test

import (
	"math"
	"testing"

	"github.com/whispr/trust-api/internal/domain/reputation"
)

func TestLevelForScoreBands(t *testing.T) {
	cases := []struct {
		score float64
		want  reputation.Level
	}{
		{0, reputation.LevelBanned},
		{24, reputation.LevelBanned},
		{25, reputation.LevelFlagged},
		{49, reputation.LevelFlagged},
		{50, reputation.LevelStandard},
		{74, reputation.LevelStandard},
		{75, reputation.LevelVerified},
		{89, reputation.LevelVerified},
		{90, reputation.LevelTrusted},
		{100, reputation.LevelTrusted},
	}

	for _, tc := range cases {
		got, err := reputation.LevelForScore(tc.score)
		if err != nil {
			t.Fatalf("LevelForScore(%v): unexpected error %v", tc.score, err)
		}
		if got != tc.want {
			t.Errorf("LevelForScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestLevelForScoreRejectsGarbage(t *testing.T) {
	for _, score := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		if _, err := reputation.LevelForScore(score); err == nil {
			t.Errorf("LevelForScore(%v): expected error, got nil", score)
		}
	}
}

func TestViolationImpact(t *testing.T) {
	cases := []struct {
		vtype    reputation.ViolationType
		severity reputation.Severity
		want     int
	}{
		{reputation.ViolationHarassment, reputation.SeverityLow, 8},    // 15 * 0.5
		{reputation.ViolationHateSpeech, reputation.SeverityHigh, 38},  // 25 * 1.5
		{reputation.ViolationViolence, reputation.SeverityCritical, 60},
		{reputation.ViolationSpam, reputation.SeverityMedium, 5},
		{reputation.ViolationMinorSafety, reputation.SeverityCritical, 70},
		// escalation markers use the default base impact
		{reputation.ViolationWhisperFlagged, reputation.SeverityMedium, 10},
		{reputation.ViolationCommentDeleted, reputation.SeverityLow, 5},
	}

	for _, tc := range cases {
		if got := reputation.ViolationImpact(tc.vtype, tc.severity); got != tc.want {
			t.Errorf("ViolationImpact(%s, %s) = %d, want %d", tc.vtype, tc.severity, got, tc.want)
		}
	}
}

func TestAggregateImpactScalesByLevel(t *testing.T) {
	result := &reputation.ModerationResult{
		Violations: []reputation.ModerationViolation{
			{Type: reputation.ViolationHarassment, Severity: reputation.SeverityMedium}, // 15
			{Type: reputation.ViolationSpam, Severity: reputation.SeverityMedium},       // 5
		},
	}

	cases := []struct {
		level reputation.Level
		want  int
	}{
		{reputation.LevelTrusted, 10},  // 20 * 0.5
		{reputation.LevelStandard, 20}, // 20 * 1.0
		{reputation.LevelFlagged, 30},  // 20 * 1.5
		{reputation.LevelBanned, 40},   // 20 * 2.0
	}

	for _, tc := range cases {
		if got := reputation.AggregateImpact(result, tc.level); got != tc.want {
			t.Errorf("AggregateImpact(%s) = %d, want %d", tc.level, got, tc.want)
		}
	}

	if got := reputation.AggregateImpact(nil, reputation.LevelStandard); got != 0 {
		t.Errorf("AggregateImpact(nil) = %d, want 0", got)
	}
}

func TestRecoveryRate(t *testing.T) {
	cases := []struct {
		score int
		want  float64
	}{
		{95, 2},
		{80, 1.5},
		{60, 1},
		{30, 0.5},
		{10, 0},
	}

	for _, tc := range cases {
		if got := reputation.RecoveryRate(tc.score); got != tc.want {
			t.Errorf("RecoveryRate(%d) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestRecoveryPointsNeverExceedsCeiling(t *testing.T) {
	rep := &reputation.UserReputation{Score: 97}
	if got := reputation.RecoveryPoints(rep, 30); got != 3 {
		t.Errorf("RecoveryPoints near ceiling = %d, want 3", got)
	}

	rep = &reputation.UserReputation{Score: 60}
	if got := reputation.RecoveryPoints(rep, 10); got != 10 {
		t.Errorf("RecoveryPoints(60, 10 days) = %d, want 10", got)
	}

	if got := reputation.RecoveryPoints(nil, 10); got != 0 {
		t.Errorf("RecoveryPoints(nil) = %d, want 0", got)
	}
}

func TestIsAppealable(t *testing.T) {
	critical := &reputation.ModerationResult{
		Violations: []reputation.ModerationViolation{
			{Type: reputation.ViolationViolence, Severity: reputation.SeverityCritical},
		},
	}
	mild := &reputation.ModerationResult{
		Violations: []reputation.ModerationViolation{
			{Type: reputation.ViolationSpam, Severity: reputation.SeverityLow},
		},
	}

	if reputation.IsAppealable(mild, reputation.LevelBanned) {
		t.Error("banned users should never be able to appeal")
	}
	if reputation.IsAppealable(critical, reputation.LevelFlagged) {
		t.Error("flagged users should not appeal critical violations")
	}
	if !reputation.IsAppealable(mild, reputation.LevelFlagged) {
		t.Error("flagged users should appeal non-critical violations")
	}
	if !reputation.IsAppealable(critical, reputation.LevelStandard) {
		t.Error("standard users should appeal critical violations")
	}
}

func TestAppealTimeLimitDays(t *testing.T) {
	cases := map[reputation.Level]int{
		reputation.LevelTrusted:  30,
		reputation.LevelVerified: 14,
		reputation.LevelStandard: 7,
		reputation.LevelFlagged:  3,
		reputation.LevelBanned:   0,
	}
	for level, want := range cases {
		if got := reputation.AppealTimeLimitDays(level); got != want {
			t.Errorf("AppealTimeLimitDays(%s) = %d, want %d", level, got, want)
		}
	}
}

func TestReputationWeight(t *testing.T) {
	cases := map[reputation.Level]float64{
		reputation.LevelTrusted:  2.0,
		reputation.LevelVerified: 1.5,
		reputation.LevelStandard: 1.0,
		reputation.LevelFlagged:  0.5,
		reputation.LevelBanned:   0.25,
	}
	for level, want := range cases {
		if got := reputation.ReputationWeight(level); got != want {
			t.Errorf("ReputationWeight(%s) = %v, want %v", level, got, want)
		}
	}
}
