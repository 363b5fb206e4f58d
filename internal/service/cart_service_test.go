package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/phrazzld/shop-api/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newCartServiceForTest(
	users *MockUserStore,
	products *MockProductStore,
	emitter *MockEventEmitter,
) (CartService, *testutils.TestSlogHandler) {
	logger, handler := testutils.NewTestLogger()
	var e events.EventEmitter
	if emitter != nil {
		e = emitter
	}
	return NewCartService(users, products, e, func() time.Time { return fixedNow }, logger), handler
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()
	user := testutils.MustCreateUserForTest(t)

	t.Run("sellable product", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		product := testutils.MustCreateProductForTest(t)
		products.On("GetByID", ctx, product.ID).Return(product, nil)
		users.On("AddCartItem", ctx, user.ID, product.ID, 3).Return(nil).Once()

		require.NoError(t, svc.AddToCart(ctx, user, product.ID, 3))
		users.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		id := uuid.New()
		products.On("GetByID", ctx, id).Return(nil, store.ErrProductNotFound)

		err := svc.AddToCart(ctx, user, id, 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		users.AssertNotCalled(t, "AddCartItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("product not for sale", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		product := testutils.MustCreateProductForTest(t, testutils.WithSell(false))
		products.On("GetByID", ctx, product.ID).Return(product, nil)

		err := svc.AddToCart(ctx, user, product.ID, 1)
		assert.ErrorIs(t, err, ErrProductUnavailable)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		err := svc.AddToCart(ctx, user, uuid.New(), 0)
		assert.ErrorIs(t, err, domain.ErrValidation)
		products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("amount above the maximum", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		err := svc.AddToCart(ctx, user, uuid.New(), domain.MaxAmount+1)
		assert.ErrorIs(t, err, domain.ErrAmountTooLarge)
		products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("merge past the maximum", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, handler := newCartServiceForTest(users, products, nil)

		product := testutils.MustCreateProductForTest(t)
		products.On("GetByID", ctx, product.ID).Return(product, nil)
		users.On("AddCartItem", ctx, user.ID, product.ID, 10).Return(domain.NewAmountTooLargeError()).Once()

		err := svc.AddToCart(ctx, user, product.ID, 10)
		assert.ErrorIs(t, err, domain.ErrAmountTooLarge)
		_, logged := handler.Find("failed to add cart item")
		assert.False(t, logged)
	})

	t.Run("catalog failure", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		dbErr := errors.New("timeout")
		id := uuid.New()
		products.On("GetByID", ctx, id).Return(nil, dbErr)

		err := svc.AddToCart(ctx, user, id, 1)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrProductUnavailable)
	})
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	users, products := new(MockUserStore), new(MockProductStore)
	svc, _ := newCartServiceForTest(users, products, nil)

	user := testutils.MustCreateUserForTest(t)
	known := testutils.MustCreateProductForTest(t)
	gone := uuid.New()
	items := []domain.CartItem{
		{ProductID: known.ID, Amount: 2},
		{ProductID: gone, Amount: 1},
	}
	users.On("GetCart", ctx, user.ID).Return(items, nil)
	products.On("GetByIDs", ctx, []uuid.UUID{known.ID, gone}).
		Return(map[uuid.UUID]*domain.Product{known.ID: known}, nil)

	lines, err := svc.GetCart(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, known, lines[0].Product)
	assert.Equal(t, 2, lines[0].Amount)
	assert.Nil(t, lines[1].Product)
	assert.Equal(t, 1, lines[1].Amount)
}

func TestCartService_EditCart(t *testing.T) {
	ctx := context.Background()
	user := testutils.MustCreateUserForTest(t)
	productID := uuid.New()

	tests := []struct {
		name   string
		amount int
		setup  func(users *MockUserStore)
	}{
		{
			name:   "positive amount overwrites",
			amount: 5,
			setup: func(users *MockUserStore) {
				users.On("SetCartItemAmount", ctx, user.ID, productID, 5).Return(nil).Once()
			},
		},
		{
			name:   "zero removes",
			amount: 0,
			setup: func(users *MockUserStore) {
				users.On("RemoveCartItem", ctx, user.ID, productID).Return(nil).Once()
			},
		},
		{
			name:   "negative removes",
			amount: -2,
			setup: func(users *MockUserStore) {
				users.On("RemoveCartItem", ctx, user.ID, productID).Return(nil).Once()
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserStore)
			svc, _ := newCartServiceForTest(users, new(MockProductStore), nil)
			tc.setup(users)

			require.NoError(t, svc.EditCart(ctx, user, productID, tc.amount))
			users.AssertExpectations(t)
		})
	}
	t.Run("amount above the maximum", func(t *testing.T) {
		users := new(MockUserStore)
		svc, _ := newCartServiceForTest(users, new(MockProductStore), nil)

		err := svc.EditCart(ctx, user, productID, 3000000000)
		assert.ErrorIs(t, err, domain.ErrAmountTooLarge)
		users.AssertNotCalled(t, "SetCartItemAmount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCartService_Checkout(t *testing.T) {
	ctx := context.Background()
	user := testutils.MustCreateUserForTest(t)

	t.Run("emits order placed", func(t *testing.T) {
		users, emitter := new(MockUserStore), new(MockEventEmitter)
		svc, _ := newCartServiceForTest(users, new(MockProductStore), emitter)

		order := domain.NewOrder([]domain.CartItem{{ProductID: uuid.New(), Amount: 2}}, fixedNow)
		users.On("Checkout", ctx, user.ID, fixedNow).Return(order, nil)
		emitter.On("EmitEvent", ctx, mock.MatchedBy(func(e *events.Event) bool {
			if e.Type != events.OrderPlaced {
				return false
			}
			var payload events.OrderPlacedPayload
			if err := e.UnmarshalPayload(&payload); err != nil {
				return false
			}
			return payload.OrderID == order.ID &&
				payload.UserID == user.ID &&
				len(payload.Products) == 1 &&
				payload.Products[0].Amount == 2
		})).Return(nil).Once()

		got, err := svc.Checkout(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, order, got)
		emitter.AssertExpectations(t)
	})

	t.Run("empty cart", func(t *testing.T) {
		users, emitter := new(MockUserStore), new(MockEventEmitter)
		svc, _ := newCartServiceForTest(users, new(MockProductStore), emitter)

		users.On("Checkout", ctx, user.ID, fixedNow).Return(nil, nil)

		got, err := svc.Checkout(ctx, user)
		require.NoError(t, err)
		assert.Nil(t, got)
		emitter.AssertNotCalled(t, "EmitEvent", mock.Anything, mock.Anything)
	})

	t.Run("emit failure does not fail checkout", func(t *testing.T) {
		users, emitter := new(MockUserStore), new(MockEventEmitter)
		svc, logs := newCartServiceForTest(users, new(MockProductStore), emitter)

		order := domain.NewOrder([]domain.CartItem{{ProductID: uuid.New(), Amount: 1}}, fixedNow)
		users.On("Checkout", ctx, user.ID, fixedNow).Return(order, nil)
		emitter.On("EmitEvent", ctx, mock.Anything).Return(errors.New("broker down"))

		got, err := svc.Checkout(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)

		entry, ok := logs.Find("failed to emit order event")
		require.True(t, ok)
		assert.Equal(t, "ERROR", entry["level"])
	})

	t.Run("store failure", func(t *testing.T) {
		users := new(MockUserStore)
		svc, _ := newCartServiceForTest(users, new(MockProductStore), nil)

		dbErr := errors.New("deadlock")
		users.On("Checkout", ctx, user.ID, fixedNow).Return(nil, dbErr)

		_, err := svc.Checkout(ctx, user)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestCartService_GetOrders(t *testing.T) {
	ctx := context.Background()
	users, products := new(MockUserStore), new(MockProductStore)
	svc, _ := newCartServiceForTest(users, products, nil)

	user := testutils.MustCreateUserForTest(t)
	p := testutils.MustCreateProductForTest(t)
	orders := []domain.Order{
		*domain.NewOrder([]domain.CartItem{{ProductID: p.ID, Amount: 1}}, fixedNow),
		*domain.NewOrder([]domain.CartItem{{ProductID: p.ID, Amount: 4}}, fixedNow.Add(time.Hour)),
	}
	users.On("GetOrders", ctx, user.ID).Return(orders, nil)
	products.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return(map[uuid.UUID]*domain.Product{p.ID: p}, nil)

	views, err := svc.GetOrders(ctx, user)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, orders[0].ID, views[0].ID)
	assert.Equal(t, p, views[1].Products[0].Product)
	assert.Equal(t, 4, views[1].Products[0].Amount)
}

func TestCartService_GetAllOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("ordinary user is refused", func(t *testing.T) {
		users := new(MockUserStore)
		svc, _ := newCartServiceForTest(users, new(MockProductStore), nil)

		result, err := svc.GetAllOrders(ctx, testutils.MustCreateUserForTest(t))
		assert.ErrorIs(t, err, ErrPermissionDenied)
		assert.ErrorIs(t, err, domain.ErrPermission)
		assert.Nil(t, result)
		users.AssertNotCalled(t, "ListAllOrders", mock.Anything)
	})

	t.Run("admin sees owners", func(t *testing.T) {
		users, products := new(MockUserStore), new(MockProductStore)
		svc, _ := newCartServiceForTest(users, products, nil)

		admin := testutils.MustCreateUserForTest(t, testutils.WithRole(domain.RoleAdmin))
		p := testutils.MustCreateProductForTest(t)
		owner := domain.UserRef{ID: uuid.New(), Account: "bob"}
		order := domain.NewOrder([]domain.CartItem{{ProductID: p.ID, Amount: 2}}, fixedNow)
		users.On("ListAllOrders", ctx).Return([]store.OwnedOrder{{Order: *order, Owner: owner}}, nil)
		products.On("GetByIDs", ctx, []uuid.UUID{p.ID}).Return(map[uuid.UUID]*domain.Product{p.ID: p}, nil)

		result, err := svc.GetAllOrders(ctx, admin)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, owner, result[0].User)
		assert.Equal(t, order.ID, result[0].ID)
		assert.Equal(t, p, result[0].Products[0].Product)
	})
}
