package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by every layer. Specific errors wrap one of these with %w
// so the API layer can map them to status codes using errors.Is.
var (
	// ErrValidation is returned when input fails a field-level constraint.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateKey is returned when a uniqueness constraint would be violated.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrAuth is returned for bad credentials and invalid, expired or revoked tokens.
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound is returned when a referenced account or product does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermission is returned when the caller's role does not allow the operation.
	ErrPermission = errors.New("permission denied")

	// ErrInvalidID is returned when an ID is malformed or empty.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)
)

// ValidationError describes a single field that failed validation.
// Message is safe to show to the client.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap supports errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return e.Err
}
