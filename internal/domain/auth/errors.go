package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInternal = errors.New("internal error")
)
