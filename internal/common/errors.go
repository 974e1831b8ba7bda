// Package common defines shared constants and sentinel errors used across
// client and server layers of healthlog. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Account directory errors.
	ErrEmailExists = errors.New("email already exists")

	// Auth errors. ErrInvalidCredentials deliberately covers both an unknown
	// email and a wrong password so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken covers malformed, expired, revoked, and orphaned
	// tokens alike.
	ErrInvalidToken = errors.New("invalid token")

	// Transport-level errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")
	ErrInternal     = errors.New("internal error")
)
