// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., a mirror row created by a concurrent run).
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument indicates a request failed validation before reaching storage.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized indicates failed authentication/authorization.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates an operation is temporarily blocked after repeated failures.
	ErrRateLimited = errors.New("rate limited")
)
