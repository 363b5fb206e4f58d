package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and verifies the session tokens handed out on login.
type JWTService interface {
	// GenerateToken creates a signed token for userID. Every call yields a
	// distinct token, even within the same second.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the signature and lifetime of tokenString and
	// returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// ValidateTokenIgnoringExpiry verifies only the signature and structure
	// of tokenString. It is used where a session may be ended or renewed
	// after the token itself has lapsed.
	ValidateTokenIgnoringExpiry(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a session token.
type Claims struct {
	// UserID is the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
