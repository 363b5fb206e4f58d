package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api/shared"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/service"
)

// AccountHandler handles registration, login and session token requests.
type AccountHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts service.AccountService, logger *slog.Logger) *AccountHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AccountHandler")
	}
	return &AccountHandler{
		accounts: accounts,
		logger:   logger.With(slog.String("component", "account_handler")),
	}
}

// Register handles POST /api/users.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.accounts.Register(r.Context(), req.Account, req.Password, req.Email); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, nil)
}

// Login handles POST /api/users/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Account, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Response: shared.Response{
			Success: true,
			Message: msgLoginSuccessful,
			Token:   result.Token,
		},
		Email:   result.Profile.Email,
		Account: result.Profile.Account,
		Role:    result.Profile.Role,
	})
}

// Logout handles DELETE /api/users/logout.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	token, _ := shared.TokenFromContext(r.Context())

	if err := h.accounts.Logout(r.Context(), user, token); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("session closed", "user_id", user.ID)
	shared.RespondOK(w, r, nil)
}

// RenewToken handles POST /api/users/extend. The new token is the result.
func (h *AccountHandler) RenewToken(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	token, _ := shared.TokenFromContext(r.Context())

	renewed, err := h.accounts.RenewToken(r.Context(), user, token)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondOK(w, r, renewed)
}

// GetProfile handles GET /api/users/me.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	shared.RespondOK(w, r, h.accounts.GetProfile(user))
}
