// Package common defines shared constants and sentinel errors used across
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// App activation errors.
	ErrActivationExpired      = errors.New("activation code expired")
	ErrActivationLimitReached = errors.New("activation code exceeded limit")
)

// NotFoundError names the kind of entity that was missing so the caller can
// tell an unknown recipe from an unknown ingredient referenced by it.
// It matches ErrorNotFound via errors.Is.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return e.Entity + " " + e.ID + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrorNotFound
}

// ValidationError reports a rejected request field. It matches ErrorValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}
