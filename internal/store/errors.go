package store

import (
	"errors"
	"fmt"

	"github.com/phrazzld/shop-api/internal/domain"
)

// Common store errors. Each wraps a domain error kind so callers outside the
// store can classify them without importing this package.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = fmt.Errorf("entity %w", domain.ErrNotFound)

	// ErrDuplicate is returned when an operation would violate a unique constraint.
	ErrDuplicate = fmt.Errorf("entity already exists: %w", domain.ErrDuplicateKey)

	// ErrInvalidEntity is returned when an entity fails validation before storage.
	ErrInvalidEntity = fmt.Errorf("invalid entity: %w", domain.ErrValidation)

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = fmt.Errorf("%w: user", ErrNotFound)

	// ErrProductNotFound indicates that the requested product does not exist.
	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)

	// ErrTokenNotFound indicates that a token is not in the user's inventory.
	ErrTokenNotFound = fmt.Errorf("%w: token", ErrNotFound)

	// ErrAccountExists indicates that the account name is taken.
	ErrAccountExists = fmt.Errorf("%w: account", ErrDuplicate)

	// ErrEmailExists indicates that the email is taken.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)
)

// IsNotFoundError reports whether err is any kind of store "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err is any kind of store "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError carries the entity and operation that failed along with the
// underlying error.
type StoreError struct {
	Entity    string // e.g. "user", "product"
	Operation string // e.g. "create", "add_cart_item"
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
