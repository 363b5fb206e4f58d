package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/service"
)

// Client-facing messages.
const (
	msgInternal           = "internal server error"
	msgInvalidRequest     = "invalid request format"
	msgBodyTooLarge       = "request body too large"
	msgAccountExists      = "account exists"
	msgAccountNotFound    = "account not found"
	msgWrongPassword      = "wrong password"
	msgProductNotFound    = "product not found"
	msgPermissionDenied   = "permission denied"
	msgInvalidToken       = "invalid token"
	msgNotFound           = "not found"
	msgLoginSuccessful    = "login successful"
	msgUserNotInContext   = "authorization required"
	msgValidationFallback = "validation failed"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes by kind.
// Login failures are 400 rather than 401/404 to match the login contract.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrWrongPassword):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that can be shown to the client.
// Internal errors always get the generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgInternal
	}

	var vErr *domain.ValidationError
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return msgAccountNotFound
	case errors.Is(err, service.ErrWrongPassword):
		return msgWrongPassword
	case errors.Is(err, service.ErrProductUnavailable):
		return msgProductNotFound
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, domain.ErrValidation):
		return msgValidationFallback
	case errors.Is(err, domain.ErrDuplicateKey):
		return msgAccountExists
	case errors.Is(err, domain.ErrAuth):
		return msgInvalidToken
	case errors.Is(err, domain.ErrPermission):
		return msgPermissionDenied
	case errors.Is(err, domain.ErrNotFound):
		return msgNotFound
	default:
		return msgInternal
	}
}

// HandleAPIError writes the failure envelope for err and logs it. Errors
// that map to 500 are logged at ERROR with their redacted detail.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
