package ledger

import "errors"

var (
	// ErrInvalidSteamID is returned when the user id doesn't match the SteamID64 pattern
	ErrInvalidSteamID = errors.New("invalid steam id")

	// ErrInvalidDelta is returned when delta is zero or outside ±MaxDelta
	ErrInvalidDelta = errors.New("invalid delta: must be nonzero and within bounds")

	// ErrInsufficientCredits is returned when a delta would take the balance below zero
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrEntryNotFound is returned when a referenced ledger entry doesn't exist
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrRollbackOfRollback is returned when rolling back an admin_rollback entry
	ErrRollbackOfRollback = errors.New("cannot roll back a rollback entry")

	ErrInternal = errors.New("internal error")
)
