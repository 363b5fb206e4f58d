package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/service/auth"
	"github.com/phrazzld/shop-api/internal/store"
)

// PasswordManager hashes new passwords and verifies login attempts.
type PasswordManager interface {
	auth.PasswordHasher
	auth.PasswordVerifier
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token   string
	Profile domain.Profile
}

// AccountService manages identities and their session tokens.
type AccountService interface {
	// Register creates an ordinary user with empty tokens, cart and orders.
	Register(ctx context.Context, account, password, email string) (*domain.User, error)

	// Login verifies credentials and issues a new session token.
	Login(ctx context.Context, account, password string) (*LoginResult, error)

	// Logout revokes token. Revoking an absent token succeeds.
	Logout(ctx context.Context, user *domain.User, token string) error

	// RenewToken replaces oldToken in place with a freshly issued token.
	RenewToken(ctx context.Context, user *domain.User, oldToken string) (string, error)

	// GetProfile returns the public fields of user.
	GetProfile(user *domain.User) domain.Profile

	// Authenticate resolves a bearer token to its user. With allowExpired set,
	// a correctly signed token past its expiry is still accepted as long as
	// it remains in the user's inventory.
	Authenticate(ctx context.Context, token string, allowExpired bool) (*domain.User, error)
}

// AccountServiceImpl implements AccountService.
type AccountServiceImpl struct {
	users     store.UserStore
	passwords PasswordManager
	tokens    auth.JWTService
	logger    *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	users store.UserStore,
	passwords PasswordManager,
	tokens auth.JWTService,
	logger *slog.Logger,
) AccountService {
	return &AccountServiceImpl{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		logger:    logger.With("component", "account_service"),
	}
}

// Register validates the input, hashes the password and stores the new user.
func (s *AccountServiceImpl) Register(
	ctx context.Context,
	account, password, email string,
) (*domain.User, error) {
	user, err := domain.NewUser(account, password, email)
	if err != nil {
		s.logger.Debug("registration rejected by validation",
			"account", account,
			"error", err)
		return nil, err
	}

	hash, err := s.passwords.Hash(user.Password)
	if err != nil {
		s.logger.Error("failed to hash password",
			"error", err,
			"account", account)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("attempted to register a taken account or email",
				"account", account)
		} else {
			s.logger.Error("failed to save user",
				"error", err,
				"account", account)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered",
		"user_id", user.ID,
		"account", user.Account)

	return user, nil
}

// Login checks the password against the stored hash and appends a new token
// to the user's inventory.
func (s *AccountServiceImpl) Login(ctx context.Context, account, password string) (*LoginResult, error) {
	user, err := s.users.GetByAccount(ctx, account)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login for unknown account", "account", account)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("failed to load user for login",
			"error", err,
			"account", account)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.passwords.Compare(user.HashedPassword, password); err != nil {
		s.logger.Debug("login with wrong password", "user_id", user.ID)
		return nil, ErrWrongPassword
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.AddToken(ctx, user.ID, token); err != nil {
		s.logger.Error("failed to store token",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to store token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResult{Token: token, Profile: user.Profile()}, nil
}

// Logout removes token from the user's inventory.
func (s *AccountServiceImpl) Logout(ctx context.Context, user *domain.User, token string) error {
	if err := s.users.RemoveToken(ctx, user.ID, token); err != nil {
		s.logger.Error("failed to remove token",
			"error", err,
			"user_id", user.ID)
		return fmt.Errorf("failed to log out: %w", err)
	}

	s.logger.Debug("user logged out", "user_id", user.ID)
	return nil
}

// RenewToken issues a new token and writes it into the inventory slot that
// held oldToken.
func (s *AccountServiceImpl) RenewToken(
	ctx context.Context,
	user *domain.User,
	oldToken string,
) (string, error) {
	token, err := s.tokens.GenerateToken(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to generate token",
			"error", err,
			"user_id", user.ID)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.ReplaceToken(ctx, user.ID, oldToken, token); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			s.logger.Debug("renewal of a token not in the inventory", "user_id", user.ID)
			return "", ErrTokenNotFound
		}
		s.logger.Error("failed to replace token",
			"error", err,
			"user_id", user.ID)
		return "", fmt.Errorf("failed to renew token: %w", err)
	}

	s.logger.Debug("token renewed", "user_id", user.ID)
	return token, nil
}

// GetProfile returns account, role and email.
func (s *AccountServiceImpl) GetProfile(user *domain.User) domain.Profile {
	return user.Profile()
}

// Authenticate validates token and loads the user that owns it.
func (s *AccountServiceImpl) Authenticate(
	ctx context.Context,
	token string,
	allowExpired bool,
) (*domain.User, error) {
	if token == "" {
		return nil, auth.ErrMissingToken
	}

	var (
		claims *auth.Claims
		err    error
	)
	if allowExpired {
		claims, err = s.tokens.ValidateTokenIgnoringExpiry(ctx, token)
	} else {
		claims, err = s.tokens.ValidateToken(ctx, token)
	}
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("token references an unknown user", "user_id", claims.UserID)
			return nil, auth.ErrInvalidToken
		}
		s.logger.Error("failed to load user for token",
			"error", err,
			"user_id", claims.UserID)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.HasToken(token) {
		s.logger.Debug("token no longer in inventory", "user_id", user.ID)
		return nil, ErrTokenRevoked
	}

	return user, nil
}
