package stipend

import "errors"

var (
	// ErrAlreadyGranted signals the guard row exists: this month's stipend
	// was already paid. Expected outcome, not a failure.
	ErrAlreadyGranted = errors.New("stipend already granted this month")

	// ErrNotEligible is returned for users without an active Pro membership
	ErrNotEligible = errors.New("user is not an active pro member")

	ErrInternal = errors.New("internal error")
)
