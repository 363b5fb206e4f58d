package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	user := MustCreateUserForTest(t, WithTokens("a"))
	require.NoError(t, s.Create(ctx, user))

	loaded, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	loaded.Tokens[0] = "mutated"

	again, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tokens)
}

func TestMemoryUserStore_Uniqueness(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	require.NoError(t, s.Create(ctx, MustCreateUserForTest(t, WithAccount("alice"), WithEmail("a@x.io"))))

	err := s.Create(ctx, MustCreateUserForTest(t, WithAccount("alice")))
	assert.ErrorIs(t, err, store.ErrAccountExists)

	err = s.Create(ctx, MustCreateUserForTest(t, WithEmail("a@x.io")))
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestMemoryUserStore_ReplaceTokenMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	user := MustCreateUserForTest(t, WithTokens("a", "b"))
	require.NoError(t, s.Create(ctx, user))

	assert.ErrorIs(t, s.ReplaceToken(ctx, user.ID, "zzz", "c"), store.ErrTokenNotFound)
	require.NoError(t, s.ReplaceToken(ctx, user.ID, "b", "c"))

	loaded, err := s.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, loaded.Tokens)
}

func TestMemoryUserStore_AddCartItemBounded(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	productID := uuid.New()
	user := MustCreateUserForTest(t, WithCart(domain.CartItem{ProductID: productID, Amount: domain.MaxAmount - 1}))
	require.NoError(t, s.Create(ctx, user))

	require.NoError(t, s.AddCartItem(ctx, user.ID, productID, 1))

	err := s.AddCartItem(ctx, user.ID, productID, 1)
	assert.ErrorIs(t, err, domain.ErrAmountTooLarge)

	cart, err := s.GetCart(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, domain.MaxAmount, cart[0].Amount)
}

func TestMemoryUserStore_CheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()
	user := MustCreateUserForTest(t)
	require.NoError(t, s.Create(ctx, user))

	order, err := s.Checkout(ctx, user.ID, time.Now())
	require.NoError(t, err)
	assert.Nil(t, order)

	_, err = s.Checkout(ctx, uuid.New(), time.Now())
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestMemoryProductStore_ListSellableNewestFirst(t *testing.T) {
	ctx := context.Background()
	older := MustCreateProductForTest(t)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := MustCreateProductForTest(t)
	hidden := MustCreateProductForTest(t, WithSell(false))
	s := NewMemoryProductStore(older, newer, hidden)

	list, err := s.ListSellable(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	byID, err := s.GetByIDs(ctx, []uuid.UUID{hidden.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, byID, 1)
	assert.Equal(t, *hidden, *byID[hidden.ID])
}
