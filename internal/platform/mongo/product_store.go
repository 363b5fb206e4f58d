package mongo

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProductStore implements store.ProductStore.
type MongoProductStore struct {
	products *mongo.Collection
	logger   *slog.Logger
}

// NewMongoProductStore creates a product store over db. If logger is nil, the
// default logger is used.
func NewMongoProductStore(db *mongo.Database, logger *slog.Logger) *MongoProductStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoProductStore{
		products: db.Collection(productsCollection),
		logger:   logger.With(slog.String("component", "product_store")),
	}
}

var _ store.ProductStore = (*MongoProductStore)(nil)

// Create implements store.ProductStore.Create.
func (s *MongoProductStore) Create(ctx context.Context, product *domain.Product) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.products.InsertOne(ctx, newProductDocument(product)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		log.Error("failed to create product",
			slog.String("error", err.Error()),
			slog.String("product_id", product.ID.String()))
		return store.NewStoreError("product", "create", "failed to create product", err)
	}

	log.Info("product created",
		slog.String("product_id", product.ID.String()),
		slog.String("name", product.Name))
	return nil
}

// GetByID implements store.ProductStore.GetByID.
func (s *MongoProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var doc productDocument
	err := s.products.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrProductNotFound
		}
		return nil, store.NewStoreError("product", "get", "failed to get product", err)
	}

	product, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("product", "get", "failed to decode product", err)
	}
	return product, nil
}

// GetByIDs implements store.ProductStore.GetByIDs.
func (s *MongoProductStore) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	products := make(map[uuid.UUID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	keys := make(bson.A, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	found, err := s.find(ctx, "get_many", bson.M{"_id": bson.M{"$in": keys}})
	if err != nil {
		return nil, err
	}
	for _, p := range found {
		products[p.ID] = p
	}
	return products, nil
}

// ListSellable implements store.ProductStore.ListSellable.
func (s *MongoProductStore) ListSellable(ctx context.Context) ([]*domain.Product, error) {
	return s.find(ctx, "list", bson.M{"sell": true},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (s *MongoProductStore) find(ctx context.Context, op string, filter bson.M, opts ...*options.FindOptions) ([]*domain.Product, error) {
	cursor, err := s.products.Find(ctx, filter, opts...)
	if err != nil {
		return nil, store.NewStoreError("product", op, "failed to query products", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("product", op, "failed to decode products", err)
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, store.NewStoreError("product", op, "failed to decode product", err)
		}
		products = append(products, p)
	}
	return products, nil
}
