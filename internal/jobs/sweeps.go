package jobs

import (
	"context"
	"time"
)

// SuspensionExpirer deactivates suspensions whose end date has passed
type SuspensionExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// AppealExpirer expires pending appeals past their time limit
type AppealExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

// ReputationRecoverer grants idle-time recovery points
type ReputationRecoverer interface {
	RunRecoverySweep(ctx context.Context) (int, error)
}

// NewSuspensionExpiry creates the suspension expiry processor
func NewSuspensionExpiry(svc SuspensionExpirer, interval time.Duration) *Processor {
	return NewProcessor("suspension_expiry", interval, svc.ExpireDue)
}

// NewAppealExpiry creates the appeal expiry processor
func NewAppealExpiry(svc AppealExpirer, interval time.Duration) *Processor {
	return NewProcessor("appeal_expiry", interval, svc.ExpireDue)
}

// NewReputationRecovery creates the reputation recovery processor
func NewReputationRecovery(svc ReputationRecoverer, interval time.Duration) *Processor {
	return NewProcessor("reputation_recovery", interval, svc.RunRecoverySweep)
}
