package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes ordinary customers from administrators.
type Role int

// Role values as stored and serialized.
const (
	RoleOrdinary Role = 0
	RoleAdmin    Role = 1
)

// ErrEmptyHashedPassword is returned when a user reaches persistence without a hash.
var ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")

// User is the aggregate root. Tokens, cart and orders are loaded and
// persisted through it.
type User struct {
	ID      uuid.UUID `json:"id"`
	Account string    `json:"account"  validate:"required,min=4,max=20"`
	// Password is the plaintext supplied at registration. It is never stored.
	Password       string     `json:"-"        validate:"required,min=4,max=20"`
	Email          string     `json:"email"    validate:"required,email"`
	HashedPassword string     `json:"-"`
	Role           Role       `json:"role"`
	Tokens         []string   `json:"-"`
	Cart           []CartItem `json:"cart"`
	Orders         []Order    `json:"orders"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Profile is the public view of a user.
type Profile struct {
	Account string `json:"account"`
	Role    Role   `json:"role"`
	Email   string `json:"email"`
}

// UserRef identifies the owner of an order in admin listings.
type UserRef struct {
	ID      uuid.UUID `json:"id"`
	Account string    `json:"account"`
}

// NewUser builds an ordinary user with empty tokens, cart and orders.
// The password is kept in plaintext and must be hashed before the user is stored.
func NewUser(account, password, email string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Account:   account,
		Password:  password,
		Email:     email,
		Role:      RoleOrdinary,
		Tokens:    []string{},
		Cart:      []CartItem{},
		Orders:    []Order{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the registration constraints. Account is checked first,
// then password, then email.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "id is required", ErrInvalidID)
	}
	return validateStruct(u)
}

// Profile returns the public fields of the user.
func (u *User) Profile() Profile {
	return Profile{Account: u.Account, Role: u.Role, Email: u.Email}
}

// IsAdmin reports whether the user may perform administrative operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasToken reports whether token is in the user's active session inventory.
func (u *User) HasToken(token string) bool {
	for _, t := range u.Tokens {
		if t == token {
			return true
		}
	}
	return false
}
