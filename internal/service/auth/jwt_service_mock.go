package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// MockJWTService is a JWTService for tests in other packages. Each method
// delegates to its Func field when set and otherwise returns the fixed fields.
type MockJWTService struct {
	GenerateTokenFunc               func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc               func(ctx context.Context, tokenString string) (*Claims, error)
	ValidateTokenIgnoringExpiryFunc func(ctx context.Context, tokenString string) (*Claims, error)

	Token           string
	TokenError      error
	ValidationError error
	Claims          *Claims
}

var _ JWTService = (*MockJWTService)(nil)

// NewMockJWTService creates a mock that issues "mock-jwt-token" and accepts
// any token as belonging to a random user.
func NewMockJWTService() *MockJWTService {
	now := time.Now()
	userID := uuid.New()

	return &MockJWTService{
		Token: "mock-jwt-token",
		Claims: &Claims{
			UserID:    userID,
			Subject:   userID.String(),
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
			ID:        uuid.New().String(),
		},
	}
}

// GenerateToken implements JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	if m.ValidationError != nil {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}

// ValidateTokenIgnoringExpiry implements JWTService. An ErrExpiredToken
// ValidationError is ignored, like the real implementation ignores expiry.
func (m *MockJWTService) ValidateTokenIgnoringExpiry(ctx context.Context, tokenString string) (*Claims, error) {
	if m.ValidateTokenIgnoringExpiryFunc != nil {
		return m.ValidateTokenIgnoringExpiryFunc(ctx, tokenString)
	}
	if m.ValidationError != nil && !errors.Is(m.ValidationError, ErrExpiredToken) {
		return nil, m.ValidationError
	}
	return m.Claims, nil
}
