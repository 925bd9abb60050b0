// Package common defines shared constants and sentinel errors used across
// server and client layers of recipeshare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")

	// ErrSelfRating is returned when an owner rates their own recipe.
	// It matches ErrorForbidden as well.
	ErrSelfRating = &forbiddenError{msg: "cannot rate own recipe"}

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// ValidationError carries a user-facing message about rejected input.
// errors.Is(err, ErrorValidation) reports true for every ValidationError.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// Invalid builds a ValidationError with the given message.
func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

type forbiddenError struct {
	msg string
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Unwrap() error { return ErrorForbidden }
