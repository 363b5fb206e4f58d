package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/store"
)

// PostgresUserStore implements store.UserStore on PostgreSQL.
type PostgresUserStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store over db. If logger is nil, the
// default logger is used.
func NewPostgresUserStore(db *sql.DB, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "password is required", domain.ErrEmptyHashedPassword)
	}

	query := `
		INSERT INTO users (id, account, email, hashed_password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Account,
		user.Email,
		user.HashedPassword,
		int16(user.Role),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("duplicate user on create",
				slog.String("account", user.Account),
				slog.String("error", err.Error()))
			return mapUserUniqueViolation(err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "failed to create user", MapError(err))
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("account", user.Account))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getUser(ctx, "id = $1", id)
}

// GetByAccount implements store.UserStore.GetByAccount.
func (s *PostgresUserStore) GetByAccount(ctx context.Context, account string) (*domain.User, error) {
	return s.getUser(ctx, "account = $1", account)
}

func (s *PostgresUserStore) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, account, email, hashed_password, role, created_at, updated_at
		FROM users
		WHERE ` + where

	var user domain.User
	var role int16
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Account,
		&user.Email,
		&user.HashedPassword,
		&role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Any("key", arg))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "failed to get user", MapError(err))
	}
	user.Role = domain.Role(role)

	if user.Tokens, err = s.getTokens(ctx, user.ID); err != nil {
		return nil, err
	}
	if user.Cart, err = s.GetCart(ctx, user.ID); err != nil {
		return nil, err
	}
	if user.Orders, err = s.GetOrders(ctx, user.ID); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *PostgresUserStore) getTokens(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token FROM user_tokens WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, store.NewStoreError("user", "get_tokens", "failed to query tokens", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, store.NewStoreError("user", "get_tokens", "failed to scan token", err)
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "get_tokens", "failed to iterate tokens", err)
	}
	return tokens, nil
}

// AddToken implements store.UserStore.AddToken.
func (s *PostgresUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_tokens (user_id, token) VALUES ($1, $2)`, userID, token)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to add token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("user", "add_token", "failed to add token", MapError(err))
	}
	return nil
}

// RemoveToken implements store.UserStore.RemoveToken.
func (s *PostgresUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		log.Error("failed to remove token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("user", "remove_token", "failed to remove token", MapError(err))
	}
	return nil
}

// ReplaceToken implements store.UserStore.ReplaceToken. The row keeps its id,
// so the token keeps its position in the inventory.
func (s *PostgresUserStore) ReplaceToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE user_tokens SET token = $3 WHERE user_id = $1 AND token = $2`,
		userID, oldToken, newToken)
	if err != nil {
		log.Error("failed to replace token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("user", "replace_token", "failed to replace token", MapError(err))
	}

	if err := CheckRowsAffected(result, "token"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrTokenNotFound
		}
		return err
	}
	return nil
}

// AddCartItem implements store.UserStore.AddCartItem as a single upsert.
func (s *PostgresUserStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO cart_items (user_id, product_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET amount = cart_items.amount + EXCLUDED.amount
	`
	_, err := s.db.ExecContext(ctx, query, userID, productID, amount)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		if IsNumericOutOfRange(err) {
			log.Debug("cart amount out of range",
				slog.String("user_id", userID.String()),
				slog.String("product_id", productID.String()))
			return domain.NewAmountTooLargeError()
		}
		log.Error("failed to add cart item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("product_id", productID.String()))
		return store.NewStoreError("cart", "add", "failed to add cart item", MapError(err))
	}
	return nil
}

// SetCartItemAmount implements store.UserStore.SetCartItemAmount.
func (s *PostgresUserStore) SetCartItemAmount(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`UPDATE cart_items SET amount = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, amount)
	if err != nil {
		if IsNumericOutOfRange(err) {
			return domain.NewAmountTooLargeError()
		}
		log.Error("failed to set cart item amount",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("product_id", productID.String()))
		return store.NewStoreError("cart", "set_amount", "failed to update cart item", MapError(err))
	}
	return nil
}

// RemoveCartItem implements store.UserStore.RemoveCartItem.
func (s *PostgresUserStore) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		log.Error("failed to remove cart item",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("product_id", productID.String()))
		return store.NewStoreError("cart", "remove", "failed to remove cart item", MapError(err))
	}
	return nil
}

// GetCart implements store.UserStore.GetCart.
func (s *PostgresUserStore) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, amount FROM cart_items WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, store.NewStoreError("cart", "get", "failed to query cart", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cart := []domain.CartItem{}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.Amount); err != nil {
			return nil, store.NewStoreError("cart", "get", "failed to scan cart item", err)
		}
		cart = append(cart, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("cart", "get", "failed to iterate cart", err)
	}
	return cart, nil
}

// Checkout implements store.UserStore.Checkout. The cart rows are deleted and
// returned by one statement and the order is written in the same transaction.
func (s *PostgresUserStore) Checkout(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var order *domain.Order
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		items, err := takeCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}

		order = domain.NewOrder(items, date)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, date) VALUES ($1, $2, $3)`,
			order.ID, userID, order.Date); err != nil {
			return MapError(err)
		}

		for i, item := range order.Products {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, product_id, amount) VALUES ($1, $2, $3, $4)`,
				order.ID, i, item.ProductID, item.Amount); err != nil {
				return MapError(err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("checkout failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("order", "checkout", "failed to check out cart", err)
	}

	if order != nil {
		log.Info("order placed",
			slog.String("user_id", userID.String()),
			slog.String("order_id", order.ID.String()),
			slog.Int("lines", len(order.Products)))
	}
	return order, nil
}

func takeCart(ctx context.Context, tx *sql.Tx, userID uuid.UUID) ([]domain.CartItem, error) {
	rows, err := tx.QueryContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 RETURNING id, product_id, amount`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	type row struct {
		id   int64
		item domain.CartItem
	}
	var taken []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.item.ProductID, &r.item.Amount); err != nil {
			return nil, err
		}
		taken = append(taken, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING order is unspecified; restore insertion order.
	sort.Slice(taken, func(i, j int) bool { return taken[i].id < taken[j].id })

	items := make([]domain.CartItem, len(taken))
	for i, r := range taken {
		items[i] = r.item
	}
	return items, nil
}

// GetOrders implements store.UserStore.GetOrders.
func (s *PostgresUserStore) GetOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	query := `
		SELECT o.id, o.date, i.product_id, i.amount
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = $1
		ORDER BY o.date, o.id, i.position
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, store.NewStoreError("order", "list", "failed to query orders", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	orders := []domain.Order{}
	for rows.Next() {
		var id uuid.UUID
		var date time.Time
		var item domain.CartItem
		if err := rows.Scan(&id, &date, &item.ProductID, &item.Amount); err != nil {
			return nil, store.NewStoreError("order", "list", "failed to scan order line", err)
		}
		if n := len(orders); n == 0 || orders[n-1].ID != id {
			orders = append(orders, domain.Order{ID: id, Date: date.UTC()})
		}
		last := &orders[len(orders)-1]
		last.Products = append(last.Products, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("order", "list", "failed to iterate orders", err)
	}
	return orders, nil
}

// ListAllOrders implements store.UserStore.ListAllOrders.
func (s *PostgresUserStore) ListAllOrders(ctx context.Context) ([]store.OwnedOrder, error) {
	query := `
		SELECT u.id, u.account, o.id, o.date, i.product_id, i.amount
		FROM orders o
		JOIN users u ON u.id = o.user_id
		JOIN order_items i ON i.order_id = o.id
		ORDER BY o.date, o.id, i.position
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, store.NewStoreError("order", "list_all", "failed to query orders", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	orders := []store.OwnedOrder{}
	for rows.Next() {
		var owner domain.UserRef
		var id uuid.UUID
		var date time.Time
		var item domain.CartItem
		if err := rows.Scan(&owner.ID, &owner.Account, &id, &date, &item.ProductID, &item.Amount); err != nil {
			return nil, store.NewStoreError("order", "list_all", "failed to scan order line", err)
		}
		if n := len(orders); n == 0 || orders[n-1].Order.ID != id {
			orders = append(orders, store.OwnedOrder{
				Order: domain.Order{ID: id, Date: date.UTC()},
				Owner: owner,
			})
		}
		last := &orders[len(orders)-1]
		last.Order.Products = append(last.Order.Products, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("order", "list_all", "failed to iterate orders", err)
	}
	return orders, nil
}

