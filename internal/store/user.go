package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
)

// UserStore persists the User aggregate. Every mutating method is a single
// atomic operation against the backing database: callers never load the
// aggregate, edit it in memory and write it back.
type UserStore interface {
	// Create saves a new user. The user must already carry HashedPassword;
	// the plaintext Password field is never written.
	// Returns ErrAccountExists or ErrEmailExists on uniqueness violations.
	Create(ctx context.Context, user *domain.User) error

	// GetByID loads the full aggregate (tokens, cart and orders).
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByAccount loads the full aggregate by account name.
	// Returns ErrUserNotFound if the user does not exist.
	GetByAccount(ctx context.Context, account string) (*domain.User, error)

	// AddToken appends token to the user's session inventory.
	AddToken(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveToken removes token from the inventory. Removing an absent token
	// is not an error.
	RemoveToken(ctx context.Context, userID uuid.UUID, token string) error

	// ReplaceToken overwrites the inventory slot holding oldToken with
	// newToken, keeping its position. Returns ErrTokenNotFound if oldToken
	// is not in the inventory.
	ReplaceToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error

	// AddCartItem adds amount to the cart line for productID, creating the
	// line if it does not exist.
	AddCartItem(ctx context.Context, userID, productID uuid.UUID, amount int) error

	// SetCartItemAmount overwrites the amount of an existing cart line.
	// It is a no-op if the user's cart has no line for productID.
	SetCartItemAmount(ctx context.Context, userID, productID uuid.UUID, amount int) error

	// RemoveCartItem deletes the cart line for productID, if present.
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error

	// GetCart returns the user's cart lines in insertion order.
	GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error)

	// Checkout moves the whole cart into a new order dated at date and empties
	// the cart, atomically. Returns a nil order when the cart is empty.
	Checkout(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Order, error)

	// GetOrders returns the user's orders, oldest first.
	GetOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)

	// ListAllOrders returns every order of every user, each annotated with
	// its owner.
	ListAllOrders(ctx context.Context) ([]OwnedOrder, error)
}

// OwnedOrder is an order together with the account that placed it.
type OwnedOrder struct {
	Order domain.Order
	Owner domain.UserRef
}
