package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
)

// MemoryUserStore is a store.UserStore held in memory. Every method runs
// under one mutex, so each call is atomic like its database counterparts.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
	order []uuid.UUID
}

var _ store.UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]*domain.User)}
}

// Create stores a copy of user, enforcing unique account and email.
func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "missing hash", domain.ErrEmptyHashedPassword)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Account == user.Account {
			return store.ErrAccountExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}

	stored := cloneUser(user)
	stored.Password = ""
	s.users[user.ID] = stored
	s.order = append(s.order, user.ID)
	return nil
}

// GetByID returns a copy of the user.
func (s *MemoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(user), nil
}

// GetByAccount returns a copy of the user holding account.
func (s *MemoryUserStore) GetByAccount(ctx context.Context, account string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Account == account {
			return cloneUser(user), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// AddToken appends token to the inventory.
func (s *MemoryUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.update(userID, func(u *domain.User) error {
		u.Tokens = append(u.Tokens, token)
		return nil
	})
}

// RemoveToken drops every occurrence of token.
func (s *MemoryUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	return s.update(userID, func(u *domain.User) error {
		kept := u.Tokens[:0]
		for _, t := range u.Tokens {
			if t != token {
				kept = append(kept, t)
			}
		}
		u.Tokens = kept
		return nil
	})
}

// ReplaceToken overwrites the slot holding oldToken.
func (s *MemoryUserStore) ReplaceToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error {
	return s.update(userID, func(u *domain.User) error {
		for i, t := range u.Tokens {
			if t == oldToken {
				u.Tokens[i] = newToken
				return nil
			}
		}
		return store.ErrTokenNotFound
	})
}

// AddCartItem merges amount into the line for productID.
func (s *MemoryUserStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	return s.update(userID, func(u *domain.User) error {
		for i := range u.Cart {
			if u.Cart[i].ProductID == productID {
				if u.Cart[i].Amount > domain.MaxAmount-amount {
					return domain.NewAmountTooLargeError()
				}
				u.Cart[i].Amount += amount
				return nil
			}
		}
		u.Cart = append(u.Cart, domain.CartItem{ProductID: productID, Amount: amount})
		return nil
	})
}

// SetCartItemAmount overwrites an existing line's amount.
func (s *MemoryUserStore) SetCartItemAmount(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	return s.update(userID, func(u *domain.User) error {
		for i := range u.Cart {
			if u.Cart[i].ProductID == productID {
				u.Cart[i].Amount = amount
			}
		}
		return nil
	})
}

// RemoveCartItem drops the line for productID.
func (s *MemoryUserStore) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	return s.update(userID, func(u *domain.User) error {
		kept := u.Cart[:0]
		for _, item := range u.Cart {
			if item.ProductID != productID {
				kept = append(kept, item)
			}
		}
		u.Cart = kept
		return nil
	})
}

// GetCart returns a copy of the cart.
func (s *MemoryUserStore) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Checkout moves the cart into a new order.
func (s *MemoryUserStore) Checkout(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Order, error) {
	var placed *domain.Order
	err := s.update(userID, func(u *domain.User) error {
		if len(u.Cart) == 0 {
			return nil
		}
		placed = domain.NewOrder(u.Cart, date)
		u.Orders = append(u.Orders, *placed)
		u.Cart = []domain.CartItem{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// GetOrders returns a copy of the user's orders.
func (s *MemoryUserStore) GetOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Orders, nil
}

// ListAllOrders returns every order in user creation order.
func (s *MemoryUserStore) ListAllOrders(ctx context.Context) ([]store.OwnedOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []store.OwnedOrder
	for _, id := range s.order {
		user := cloneUser(s.users[id])
		for _, order := range user.Orders {
			all = append(all, store.OwnedOrder{
				Order: order,
				Owner: domain.UserRef{ID: user.ID, Account: user.Account},
			})
		}
	}
	return all, nil
}

// SetRole changes a stored user's role. Tests use it to create administrators.
func (s *MemoryUserStore) SetRole(userID uuid.UUID, role domain.Role) error {
	return s.update(userID, func(u *domain.User) error {
		u.Role = role
		return nil
	})
}

func (s *MemoryUserStore) update(userID uuid.UUID, fn func(u *domain.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	if err := fn(user); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Tokens = append([]string{}, u.Tokens...)
	c.Cart = append([]domain.CartItem{}, u.Cart...)
	c.Orders = make([]domain.Order, 0, len(u.Orders))
	for _, order := range u.Orders {
		order.Products = append([]domain.CartItem{}, order.Products...)
		c.Orders = append(c.Orders, order)
	}
	return &c
}

// MemoryProductStore is a store.ProductStore held in memory.
type MemoryProductStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]domain.Product
}

var _ store.ProductStore = (*MemoryProductStore)(nil)

// NewMemoryProductStore creates a MemoryProductStore seeded with products.
func NewMemoryProductStore(products ...*domain.Product) *MemoryProductStore {
	s := &MemoryProductStore{products: make(map[uuid.UUID]domain.Product)}
	for _, p := range products {
		s.products[p.ID] = *p
	}
	return s
}

// Create stores a copy of product.
func (s *MemoryProductStore) Create(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[product.ID]; ok {
		return store.ErrDuplicate
	}
	s.products[product.ID] = *product
	return nil
}

// GetByID returns a copy of the product.
func (s *MemoryProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrProductNotFound
	}
	return &p, nil
}

// GetByIDs returns the known products among ids.
func (s *MemoryProductStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[uuid.UUID]*domain.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			result[id] = &p
		}
	}
	return result, nil
}

// ListSellable returns the products on sale, newest first.
func (s *MemoryProductStore) ListSellable(ctx context.Context) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Product
	for _, p := range s.products {
		if p.Sell {
			p := p
			result = append(result, &p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
