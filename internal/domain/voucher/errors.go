package voucher

import "errors"

var (
	// ErrInvalidCode covers every redeem failure: unknown code, expired,
	// disabled, or already redeemed. Distinguishing them would let callers
	// enumerate code state.
	ErrInvalidCode = errors.New("invalid or already redeemed code")

	// ErrInvalidBatch is returned for a bad generation request
	ErrInvalidBatch = errors.New("invalid voucher batch request")

	// ErrNotFound is returned by admin lookups for a missing voucher
	ErrNotFound = errors.New("voucher not found")

	ErrInternal = errors.New("internal error")
)
