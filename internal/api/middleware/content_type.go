package middleware

import (
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
)

// RequireJSON rejects requests whose Content-Type is not application/json.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shared.IsJSON(r) {
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid content type")
			return
		}
		next.ServeHTTP(w, r)
	})
}
