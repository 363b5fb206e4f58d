package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/store"
)

// CartService manages a user's cart and order history.
type CartService interface {
	// AddToCart adds amount of a sellable product to the user's cart, merging
	// with an existing line for the same product.
	AddToCart(ctx context.Context, user *domain.User, productID uuid.UUID, amount int) error

	// GetCart returns the user's cart with products resolved.
	GetCart(ctx context.Context, user *domain.User) ([]domain.CartLine, error)

	// EditCart overwrites the amount of a cart line, removing it when amount
	// is zero or negative. Editing a product not in the cart does nothing.
	EditCart(ctx context.Context, user *domain.User, productID uuid.UUID, amount int) error

	// Checkout turns the cart into a new order and empties the cart. It
	// returns a nil order when the cart is empty.
	Checkout(ctx context.Context, user *domain.User) (*domain.Order, error)

	// GetOrders returns the user's orders with products resolved.
	GetOrders(ctx context.Context, user *domain.User) ([]domain.OrderView, error)

	// GetAllOrders returns every user's orders. Only administrators may call it.
	GetAllOrders(ctx context.Context, requester *domain.User) ([]domain.UserOrder, error)
}

// CartServiceImpl implements CartService.
type CartServiceImpl struct {
	users    store.UserStore
	products store.ProductStore
	emitter  events.EventEmitter
	now      func() time.Time
	logger   *slog.Logger
}

// NewCartService creates a new CartService. If now is nil, time.Now is used
// to date orders.
func NewCartService(
	users store.UserStore,
	products store.ProductStore,
	emitter events.EventEmitter,
	now func() time.Time,
	logger *slog.Logger,
) CartService {
	if now == nil {
		now = time.Now
	}
	return &CartServiceImpl{
		users:    users,
		products: products,
		emitter:  emitter,
		now:      now,
		logger:   logger.With("component", "cart_service"),
	}
}

// AddToCart checks the amount and the product, then merges the line atomically.
func (s *CartServiceImpl) AddToCart(
	ctx context.Context,
	user *domain.User,
	productID uuid.UUID,
	amount int,
) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil && !errors.Is(err, store.ErrProductNotFound) {
		s.logger.Error("failed to load product",
			"error", err,
			"product_id", productID)
		return fmt.Errorf("failed to load product: %w", err)
	}
	if !product.Available() {
		s.logger.Debug("product missing or not for sale", "product_id", productID)
		return ErrProductUnavailable
	}

	if err := s.users.AddCartItem(ctx, user.ID, productID, amount); err != nil {
		if errors.Is(err, domain.ErrAmountTooLarge) {
			s.logger.Debug("cart line would exceed the maximum amount",
				"user_id", user.ID,
				"product_id", productID)
			return err
		}
		s.logger.Error("failed to add cart item",
			"error", err,
			"user_id", user.ID,
			"product_id", productID)
		return fmt.Errorf("failed to add to cart: %w", err)
	}

	s.logger.Debug("added to cart",
		"user_id", user.ID,
		"product_id", productID,
		"amount", amount)
	return nil
}

// GetCart loads the current cart and joins it with the catalog.
func (s *CartServiceImpl) GetCart(ctx context.Context, user *domain.User) ([]domain.CartLine, error) {
	items, err := s.users.GetCart(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load cart",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	products, err := s.products.GetByIDs(ctx, domain.ProductIDs(items))
	if err != nil {
		s.logger.Error("failed to resolve cart products",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	return domain.ResolveLines(items, products), nil
}

// EditCart sets or removes the requesting user's line for productID.
func (s *CartServiceImpl) EditCart(
	ctx context.Context,
	user *domain.User,
	productID uuid.UUID,
	amount int,
) error {
	if err := domain.ValidateAmountLimit(amount); err != nil {
		return err
	}

	var err error
	if amount <= 0 {
		err = s.users.RemoveCartItem(ctx, user.ID, productID)
	} else {
		err = s.users.SetCartItemAmount(ctx, user.ID, productID, amount)
	}
	if err != nil {
		s.logger.Error("failed to edit cart",
			"error", err,
			"user_id", user.ID,
			"product_id", productID)
		return fmt.Errorf("failed to edit cart: %w", err)
	}

	s.logger.Debug("cart edited",
		"user_id", user.ID,
		"product_id", productID,
		"amount", amount)
	return nil
}

// Checkout moves the cart into a new order and announces it.
func (s *CartServiceImpl) Checkout(ctx context.Context, user *domain.User) (*domain.Order, error) {
	order, err := s.users.Checkout(ctx, user.ID, s.now())
	if err != nil {
		s.logger.Error("failed to check out",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to check out: %w", err)
	}
	if order == nil {
		s.logger.Debug("checkout with an empty cart", "user_id", user.ID)
		return nil, nil
	}

	s.logger.Info("order placed",
		"user_id", user.ID,
		"order_id", order.ID,
		"lines", len(order.Products))

	s.emitOrderPlaced(ctx, user.ID, order)
	return order, nil
}

// emitOrderPlaced logs failures instead of returning them: the order is
// already committed.
func (s *CartServiceImpl) emitOrderPlaced(ctx context.Context, userID uuid.UUID, order *domain.Order) {
	if s.emitter == nil {
		return
	}

	lines := make([]events.OrderLine, 0, len(order.Products))
	for _, item := range order.Products {
		lines = append(lines, events.OrderLine{ProductID: item.ProductID, Amount: item.Amount})
	}

	event, err := events.NewEvent(events.OrderPlaced, events.OrderPlacedPayload{
		OrderID:  order.ID,
		UserID:   userID,
		Date:     order.Date,
		Products: lines,
	})
	if err != nil {
		s.logger.Error("failed to build order event",
			"error", err,
			"order_id", order.ID)
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit order event",
			"error", err,
			"order_id", order.ID)
	}
}

// GetOrders returns the user's orders, oldest first.
func (s *CartServiceImpl) GetOrders(ctx context.Context, user *domain.User) ([]domain.OrderView, error) {
	orders, err := s.users.GetOrders(ctx, user.ID)
	if err != nil {
		s.logger.Error("failed to load orders",
			"error", err,
			"user_id", user.ID)
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	products, err := s.resolveProducts(ctx, orders)
	if err != nil {
		return nil, err
	}

	views := make([]domain.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView(order, products))
	}
	return views, nil
}

// GetAllOrders lists the orders of every user for an administrator.
func (s *CartServiceImpl) GetAllOrders(
	ctx context.Context,
	requester *domain.User,
) ([]domain.UserOrder, error) {
	if !requester.IsAdmin() {
		s.logger.Debug("non-admin requested all orders", "user_id", requester.ID)
		return nil, ErrPermissionDenied
	}

	owned, err := s.users.ListAllOrders(ctx)
	if err != nil {
		s.logger.Error("failed to list all orders", "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(owned))
	for _, o := range owned {
		orders = append(orders, o.Order)
	}
	products, err := s.resolveProducts(ctx, orders)
	if err != nil {
		return nil, err
	}

	result := make([]domain.UserOrder, 0, len(owned))
	for _, o := range owned {
		result = append(result, domain.UserOrder{
			OrderView: orderView(o.Order, products),
			User:      o.Owner,
		})
	}
	return result, nil
}

func (s *CartServiceImpl) resolveProducts(
	ctx context.Context,
	orders []domain.Order,
) (map[uuid.UUID]*domain.Product, error) {
	var items []domain.CartItem
	for _, order := range orders {
		items = append(items, order.Products...)
	}

	products, err := s.products.GetByIDs(ctx, domain.ProductIDs(items))
	if err != nil {
		s.logger.Error("failed to resolve order products", "error", err)
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	return products, nil
}

func orderView(order domain.Order, products map[uuid.UUID]*domain.Product) domain.OrderView {
	return domain.OrderView{
		ID:       order.ID,
		Products: domain.ResolveLines(order.Products, products),
		Date:     order.Date,
	}
}
