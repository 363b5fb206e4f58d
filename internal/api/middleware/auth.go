package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
)

// Authenticator resolves a bearer token to the user that owns it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string, allowExpired bool) (*domain.User, error)
}

// AuthMiddleware provides bearer token authentication for routes.
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(authenticator Authenticator, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger.With("component", "auth_middleware"),
	}
}

// Authenticate requires a valid, unexpired token that is still in its
// owner's inventory, and stores the user and token on the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return m.handler(next, false)
}

// AuthenticateAllowExpired is Authenticate for the logout and renewal routes:
// a correctly signed token past its expiry is accepted while it is still in
// the inventory.
func (m *AuthMiddleware) AuthenticateAllowExpired(next http.Handler) http.Handler {
	return m.handler(next, true)
}

func (m *AuthMiddleware) handler(next http.Handler, allowExpired bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "authorization required")
			return
		}

		user, err := m.authenticator.Authenticate(r.Context(), token, allowExpired)
		if err != nil {
			if errors.Is(err, domain.ErrAuth) {
				logger.FromContextOrDefault(r.Context(), m.logger).Debug("authentication failed",
					"error", err,
					"allow_expired", allowExpired)
				shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "internal server error", err)
			return
		}

		ctx := shared.WithUser(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
