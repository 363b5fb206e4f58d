package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/store"
)

// PostgresProductStore implements store.ProductStore on PostgreSQL.
type PostgresProductStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProductStore creates a product store over a connection or
// transaction. If logger is nil, the default logger is used.
func NewPostgresProductStore(db store.DBTX, logger *slog.Logger) *PostgresProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProductStore{
		db:     db,
		logger: logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*PostgresProductStore)(nil)

const productColumns = `id, name, price, description, image, sell, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.Image,
		&p.Sell,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create implements store.ProductStore.Create.
func (s *PostgresProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Price,
		product.Description,
		product.Image,
		product.Sell,
		product.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return store.NewStoreError("product", "create", "failed to create product", MapError(err))
	}

	log.Info("product created",
		slog.String("product_id", product.ID.String()),
		slog.String("name", product.Name))
	return nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *PostgresProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("product not found", slog.String("product_id", id.String()))
			return nil, store.ErrProductNotFound
		}
		log.Error("failed to get product",
			slog.String("error", err.Error()),
			slog.String("product_id", id.String()))
		return nil, store.NewStoreError("product", "get", "failed to get product", MapError(err))
	}
	return product, nil
}

// GetByIDs implements store.ProductStore.GetByIDs.
func (s *PostgresProductStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	products := make(map[uuid.UUID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id IN (` +
		strings.Join(placeholders, ", ") + `)`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("product", "get_many", "failed to query products", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, store.NewStoreError("product", "get_many", "failed to scan product", err)
		}
		products[product.ID] = product
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("product", "get_many", "failed to iterate products", err)
	}
	return products, nil
}

// ListSellable implements store.ProductStore.ListSellable.
func (s *PostgresProductStore) ListSellable(ctx context.Context) ([]*domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE sell = TRUE ORDER BY created_at DESC`)
	if err != nil {
		return nil, store.NewStoreError("product", "list", "failed to query products", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, store.NewStoreError("product", "list", "failed to scan product", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("product", "list", "failed to iterate products", err)
	}
	return products, nil
}
