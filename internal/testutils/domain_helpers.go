package testutils

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// TestPasswordHash is a stand-in hash for users built without a hasher.
const TestPasswordHash = "hashed-password"

// UserOption customizes a user built by MustCreateUserForTest.
type UserOption func(*domain.User)

// WithAccount sets the account name.
func WithAccount(account string) UserOption {
	return func(u *domain.User) { u.Account = account }
}

// WithEmail sets the email.
func WithEmail(email string) UserOption {
	return func(u *domain.User) { u.Email = email }
}

// WithRole sets the role.
func WithRole(role domain.Role) UserOption {
	return func(u *domain.User) { u.Role = role }
}

// WithTokens sets the token inventory.
func WithTokens(tokens ...string) UserOption {
	return func(u *domain.User) { u.Tokens = tokens }
}

// WithCart sets the cart lines.
func WithCart(items ...domain.CartItem) UserOption {
	return func(u *domain.User) { u.Cart = items }
}

// MustCreateUserForTest builds a valid ordinary user with a unique account
// and email and a placeholder password hash. It is not persisted.
func MustCreateUserForTest(t *testing.T, opts ...UserOption) *domain.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	user, err := domain.NewUser("user"+suffix, "secret", fmt.Sprintf("user%s@example.com", suffix))
	require.NoError(t, err, "failed to build test user")

	user.Password = ""
	user.HashedPassword = TestPasswordHash
	for _, opt := range opts {
		opt(user)
	}
	return user
}

// ProductOption customizes a product built by MustCreateProductForTest.
type ProductOption func(*domain.Product)

// WithSell sets whether the product is on sale.
func WithSell(sell bool) ProductOption {
	return func(p *domain.Product) { p.Sell = sell }
}

// WithPrice sets the price.
func WithPrice(price int64) ProductOption {
	return func(p *domain.Product) { p.Price = price }
}

// MustCreateProductForTest builds a sellable product. It is not persisted.
func MustCreateProductForTest(t *testing.T, opts ...ProductOption) *domain.Product {
	t.Helper()

	product, err := domain.NewProduct("Product "+uuid.New().String()[:8], 1000, "test product", "", true)
	require.NoError(t, err, "failed to build test product")

	for _, opt := range opts {
		opt(product)
	}
	return product
}
