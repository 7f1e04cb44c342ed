package suspension

import "errors"

var (
	ErrSuspensionNotFound  = errors.New("suspension not found")
	ErrDurationRequired    = errors.New("temporary suspension requires a duration")
	ErrDurationNotAllowed  = errors.New("permanent suspension cannot carry a duration")
	ErrPermanentImmutable  = errors.New("cannot adjust duration of a permanent suspension")
	ErrInvalidReviewAction = errors.New("invalid review action")
)
