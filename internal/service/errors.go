package service

import (
	"fmt"

	"github.com/phrazzld/shop-api/internal/domain"
)

// Common service errors - sentinel errors used across service implementations.
// Each wraps one of the domain error kinds so the API layer can map it to an
// HTTP status with errors.Is.
var (
	// ErrAccountNotFound indicates that no user holds the account name given at login.
	// API layer should map this to HTTP 400 with the message "account not found".
	ErrAccountNotFound = fmt.Errorf("account not found: %w", domain.ErrNotFound)

	// ErrWrongPassword indicates that the password did not match the stored hash.
	// API layer should map this to HTTP 400 with the message "wrong password".
	ErrWrongPassword = fmt.Errorf("wrong password: %w", domain.ErrAuth)

	// ErrTokenNotFound indicates that a token being renewed is not in the
	// user's inventory.
	ErrTokenNotFound = fmt.Errorf("token not found: %w", domain.ErrAuth)

	// ErrTokenRevoked indicates that a correctly signed token is no longer in
	// the user's inventory because of a logout or renewal.
	ErrTokenRevoked = fmt.Errorf("token revoked: %w", domain.ErrAuth)

	// ErrProductUnavailable indicates that a product does not exist or is not on sale.
	// API layer should map this to HTTP 404 with the message "product not found".
	ErrProductUnavailable = fmt.Errorf("product not found: %w", domain.ErrNotFound)

	// ErrPermissionDenied indicates that the caller's role does not allow the operation.
	// API layer should map this to HTTP 403.
	ErrPermissionDenied = fmt.Errorf("administrator role required: %w", domain.ErrPermission)
)
