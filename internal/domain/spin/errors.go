package spin

import "errors"

var (
	// ErrAlreadySpun is returned when the user already spun today
	ErrAlreadySpun = errors.New("already spun today")

	// ErrUnavailable is returned when Redis is not configured; without the
	// daily lock the wheel would be spinnable without limit
	ErrUnavailable = errors.New("spin service unavailable")

	ErrInternal = errors.New("internal error")
)
