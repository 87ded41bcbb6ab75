package domain

import "errors"

var (
	// ErrNotAuthorized is returned when a non-privileged actor tries to mutate a balance.
	ErrNotAuthorized = errors.New("actor is not authorized")
	// ErrInvalidAmount is returned when an amount is not a non-zero integer.
	ErrInvalidAmount = errors.New("amount must be a non-zero integer")
	// ErrIdentityNotFound is returned when a target token matches no profile.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrStorageUnavailable is returned when persisted state cannot be read or written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
