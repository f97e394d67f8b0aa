package app

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for unknown emails and wrong passwords
	// alike, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNotFound covers both genuinely missing records and records owned by
	// someone else; the two outcomes are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")
)

// ValidationError reports malformed or out-of-range input. It is raised
// before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
