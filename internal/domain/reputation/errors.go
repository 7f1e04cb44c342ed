package reputation

import "errors"

var (
	ErrInvalidScore       = errors.New("score must be a finite non-negative number")
	ErrViolationNotFound  = errors.New("violation not found")
	ErrReputationNotFound = errors.New("reputation not found")
)
