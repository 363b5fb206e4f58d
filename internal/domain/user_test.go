package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("alice", "secret", "alice@example.com")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Role != RoleOrdinary {
		t.Errorf("Expected role %d, got %d", RoleOrdinary, user.Role)
	}
	if len(user.Tokens) != 0 || len(user.Cart) != 0 || len(user.Orders) != 0 {
		t.Error("Expected empty tokens, cart and orders")
	}
	if user.HashedPassword != "" {
		t.Error("Expected password to be left unhashed by the constructor")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		account   string
		password  string
		email     string
		wantField string
		wantMsg   string
	}{
		{"missing account", "", "secret", "a@example.com", "account", "account is required"},
		{"short account", "abc", "secret", "a@example.com", "account", "account must be at least 4 characters"},
		{"long account", strings.Repeat("a", 21), "secret", "a@example.com", "account", "account must be at most 20 characters"},
		{"missing password", "alice", "", "a@example.com", "password", "password is required"},
		{"short password", "alice", "abc", "a@example.com", "password", "password must be at least 4 characters"},
		{"long password", "alice", strings.Repeat("p", 21), "a@example.com", "password", "password must be at most 20 characters"},
		{"missing email", "alice", "secret", "", "email", "email is required"},
		{"bad email", "alice", "secret", "not-an-email", "email", "invalid email format"},
		{"account checked before email", "ab", "secret", "bad", "account", "account must be at least 4 characters"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewUser(tc.account, tc.password, tc.email)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected error to wrap ErrValidation, got %v", err)
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected *ValidationError, got %T", err)
			}
			if vErr.Field != tc.wantField {
				t.Errorf("Expected field %q, got %q", tc.wantField, vErr.Field)
			}
			if vErr.Message != tc.wantMsg {
				t.Errorf("Expected message %q, got %q", tc.wantMsg, vErr.Message)
			}
		})
	}
}

func TestAccountLengthCountsCharacters(t *testing.T) {
	// four multi-byte characters satisfy the minimum
	if _, err := NewUser("測試帳號", "secret", "tw@example.com"); err != nil {
		t.Errorf("Expected no error for 4-character account, got %v", err)
	}
}

func TestUserHelpers(t *testing.T) {
	user := &User{
		Account: "admin",
		Email:   "admin@example.com",
		Role:    RoleAdmin,
		Tokens:  []string{"t1", "t2"},
	}

	if !user.IsAdmin() {
		t.Error("Expected admin user")
	}
	if !user.HasToken("t2") {
		t.Error("Expected token t2 to be present")
	}
	if user.HasToken("t3") {
		t.Error("Expected token t3 to be absent")
	}

	profile := user.Profile()
	if profile != (Profile{Account: "admin", Role: RoleAdmin, Email: "admin@example.com"}) {
		t.Errorf("Unexpected profile %+v", profile)
	}
}
