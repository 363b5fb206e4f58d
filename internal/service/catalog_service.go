package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
)

// NewProductInput carries the fields of a product being created.
type NewProductInput struct {
	Name        string
	Price       int64
	Description string
	Image       string
	Sell        bool
}

// CatalogService exposes the product read-model and lets administrators add products.
type CatalogService interface {
	CreateProduct(ctx context.Context, requester *domain.User, input NewProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// CatalogServiceImpl implements CatalogService.
type CatalogServiceImpl struct {
	products store.ProductStore
	logger   *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products store.ProductStore, logger *slog.Logger) CatalogService {
	return &CatalogServiceImpl{
		products: products,
		logger:   logger.With("component", "catalog_service"),
	}
}

// CreateProduct validates and stores a product. Only administrators may call it.
func (s *CatalogServiceImpl) CreateProduct(
	ctx context.Context,
	requester *domain.User,
	input NewProductInput,
) (*domain.Product, error) {
	if !requester.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	product, err := domain.NewProduct(input.Name, input.Price, input.Description, input.Image, input.Sell)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("failed to save product",
			"error", err,
			"name", input.Name)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created",
		"product_id", product.ID,
		"created_by", requester.ID)
	return product, nil
}

// ListProducts returns the products currently on sale.
func (s *CatalogServiceImpl) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.ListSellable(ctx)
	if err != nil {
		s.logger.Error("failed to list products", "error", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product, whether or not it is on sale.
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrProductUnavailable
		}
		s.logger.Error("failed to load product",
			"error", err,
			"product_id", id)
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	return product, nil
}
