package auth

import (
	"fmt"

	"github.com/phrazzld/shop-api/internal/domain"
)

// Token errors. All wrap domain.ErrAuth.
var (
	// ErrInvalidToken indicates the token format is invalid or its signature doesn't match.
	ErrInvalidToken = fmt.Errorf("%w: invalid authentication token", domain.ErrAuth)

	// ErrExpiredToken indicates the token has expired.
	ErrExpiredToken = fmt.Errorf("%w: authentication token has expired", domain.ErrAuth)

	// ErrTokenNotYetValid indicates the token was issued in the future.
	ErrTokenNotYetValid = fmt.Errorf("%w: authentication token not yet valid", domain.ErrAuth)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = fmt.Errorf("%w: authentication token is missing", domain.ErrAuth)
)
