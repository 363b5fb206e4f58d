package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/config"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeHours: 1})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeHours: 0})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeHours: 168})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 7 * 24 * time.Hour
	userID := uuid.New()
	svc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))

	t.Run("generates valid token", func(t *testing.T) {
		t.Parallel()
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, userID.String(), claims.Subject)
		assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("tokens issued in the same instant differ", func(t *testing.T) {
		t.Parallel()
		first, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		second, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	userID := uuid.New()

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), userID)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID)
				valSvc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime.Add(lifetime+time.Hour)))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), userID)
				valSvc := newHMACJWTService(wrongSecret, lifetime, fixedClock(fixedTime))
				return valSvc, token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong signing method",
			setupFunc: func() (JWTService, string) {
				token := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtCustomClaims{
					UserID: userID,
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(lifetime)),
					},
				})
				signed, _ := token.SignedString([]byte(testSecret))
				return newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime)), signed
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, domain.ErrAuth)
				assert.Nil(t, claims)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, claims.UserID)
			}
		})
	}
}

func TestValidateTokenIgnoringExpiry(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lifetime := time.Hour
	userID := uuid.New()

	genSvc := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime))
	token, err := genSvc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	later := newHMACJWTService(testSecret, lifetime, fixedClock(fixedTime.Add(48*time.Hour)))

	_, err = later.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	claims, err := later.ValidateTokenIgnoringExpiry(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)

	forged := newHMACJWTService(wrongSecret, lifetime, fixedClock(fixedTime.Add(48*time.Hour)))
	_, err = forged.ValidateTokenIgnoringExpiry(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
