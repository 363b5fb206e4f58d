package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const productsNS = "shop.products"

func productDoc(id uuid.UUID, name string, sell bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "name", Value: name},
		{Key: "price", Value: int64(1500)},
		{Key: "description", Value: ""},
		{Key: "image", Value: ""},
		{Key: "sell", Value: sell},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(time.Now())},
	}
}

func TestMongoProductStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		s := NewMongoProductStore(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		product, err := domain.NewProduct("Lamp", 4999, "Desk lamp", "", true)
		require.NoError(mt, err)
		assert.NoError(mt, s.Create(context.Background(), product))
	})

	mt.Run("get by id", func(mt *mtest.T) {
		s := NewMongoProductStore(mt.DB, nil)
		id := uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch, productDoc(id, "Lamp", true)))

		product, err := s.GetByID(context.Background(), id)
		require.NoError(mt, err)
		assert.Equal(mt, id, product.ID)
		assert.Equal(mt, "Lamp", product.Name)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		s := NewMongoProductStore(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch))

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(mt, err, store.ErrProductNotFound)
	})

	mt.Run("get by ids", func(mt *mtest.T) {
		s := NewMongoProductStore(mt.DB, nil)
		a, b := uuid.New(), uuid.New()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch,
			productDoc(a, "Lamp", true)))

		products, err := s.GetByIDs(context.Background(), []uuid.UUID{a, b})
		require.NoError(mt, err)
		assert.Len(mt, products, 1)
		assert.NotNil(mt, products[a])
		assert.Nil(mt, products[b])
	})

	mt.Run("list sellable", func(mt *mtest.T) {
		s := NewMongoProductStore(mt.DB, nil)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch,
			productDoc(uuid.New(), "Lamp", true),
			productDoc(uuid.New(), "Chair", true)))

		products, err := s.ListSellable(context.Background())
		require.NoError(mt, err)
		assert.Len(mt, products, 2)
	})
}
