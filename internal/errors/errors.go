package errors

import (
	"errors"
	"fmt"
)

// Common error types for the fantasy proxy
var (
	// Input errors
	ErrValidation = errors.New("invalid request")

	// Rate limiting
	ErrTooManyAttempts = errors.New("too many failed attempts")

	// Upstream errors
	ErrUpstreamAuth        = errors.New("upstream authentication failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// Token errors
	ErrInvalidToken = errors.New("invalid session token")
	ErrExpiredToken = errors.New("session token expired")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session")

	// Authorization errors
	ErrForbidden = errors.New("access denied")

	// General errors
	ErrSecurity = errors.New("security error")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
