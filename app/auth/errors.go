package auth

import "errors"

var (
	// ErrInvalidCredentials is a wrong username or password. It is a
	// classified outcome, not a failure of the store.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthorized means the caller holds no authenticated session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEmptyPassword guards SetPassword and Provision.
	ErrEmptyPassword = errors.New("password cannot be empty")
)
