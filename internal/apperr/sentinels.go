// Package apperr contains sentinel errors shared by the repository, service and
// handler layers so the HTTP edge can map failures to status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrUnauthorized indicates a missing, invalid, expired or revoked bearer token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a failed login.
	ErrInvalidCredentials = errors.New("invalid login credentials")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired indicates an upload grant past its expiry instant.
	ErrExpired = errors.New("expired")

	// ErrValidation indicates a missing or malformed request field.
	ErrValidation = errors.New("validation failed")

	// ErrStorage indicates an object store read or write failure.
	ErrStorage = errors.New("storage failure")

	// ErrConflict indicates a uniqueness violation or a lost optimistic update.
	ErrConflict = errors.New("conflict")
)
