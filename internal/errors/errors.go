// Package errors provides the domain error vocabulary shared by every module. Use cases return
// these (usually wrapped with context) and the HTTP layer maps them to status codes.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Domain packages wrap them to declare their own errors.
var (
	// ErrNotFound indicates the resource is absent or not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the write collides with existing data (e.g., a unique name).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the caller could not be identified.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is known but not allowed to act.
	ErrForbidden = errors.New("forbidden")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while keeping it matchable with Is and As.
// Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Join returns an error that matches every non-nil error passed in.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
