package appeal

import "errors"

var (
	ErrAppealNotFound    = errors.New("appeal not found")
	ErrViolationNotFound = errors.New("violation not found")
	ErrNotEligible       = errors.New("banned users cannot appeal")
	ErrNotOwner          = errors.New("violation belongs to another user")
	ErrPastTimeLimit     = errors.New("appeal time limit exceeded")
	ErrDuplicateAppeal   = errors.New("an appeal for this violation is already pending")
	ErrAlreadyReviewed   = errors.New("appeal already reviewed")
	ErrInvalidAdjustment = errors.New("approval requires a non-negative reputation adjustment")
)
