package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced entity does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a relation or unique value already exists,
	// or when removing a relation that is absent
	ErrConflict = errors.New("conflict")
	// ErrForbidden is returned when the caller may not modify the object
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrInvalidCredentials is returned by login and password checks
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError describes a rejected input field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// conflictError carries a user-facing message while matching ErrConflict
type conflictError struct {
	message string
}

func (e *conflictError) Error() string { return e.message }

func (e *conflictError) Unwrap() error { return ErrConflict }

func newConflict(message string) error {
	return &conflictError{message: message}
}

func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}
