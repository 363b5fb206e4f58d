package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
)

// ProductStore is the catalog read-model consumed by the cart flow.
type ProductStore interface {
	// Create saves a new product.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product. Returns ErrProductNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// GetByIDs retrieves the products that exist among ids, keyed by ID.
	// Unknown IDs are simply absent from the result.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)

	// ListSellable returns every product currently on sale, newest first.
	ListSellable(ctx context.Context) ([]*domain.Product, error)
}
