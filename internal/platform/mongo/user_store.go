package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements store.UserStore with one document per user.
type MongoUserStore struct {
	users  *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a user store over db. If logger is nil, the
// default logger is used.
func NewMongoUserStore(db *mongo.Database, logger *slog.Logger) *MongoUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoUserStore{
		users:  db.Collection(usersCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*MongoUserStore)(nil)

func byID(id uuid.UUID) bson.M {
	return bson.M{"_id": id.String()}
}

// Create implements store.UserStore.Create.
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if user.HashedPassword == "" {
		return domain.NewValidationError("password", "password is required", domain.ErrEmptyHashedPassword)
	}

	if _, err := s.users.InsertOne(ctx, newUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug("duplicate user on create",
				slog.String("account", user.Account),
				slog.String("error", err.Error()))
			return mapDuplicateKey(err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "failed to create user", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("account", user.Account))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MongoUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.findUser(ctx, byID(id))
}

// GetByAccount implements store.UserStore.GetByAccount.
func (s *MongoUserStore) GetByAccount(ctx context.Context, account string) (*domain.User, error) {
	return s.findUser(ctx, bson.M{"account": account})
}

func (s *MongoUserStore) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var doc userDocument
	if err := s.users.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("user not found", slog.Any("filter", filter))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to find user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "failed to get user", err)
	}

	user, err := doc.toDomain()
	if err != nil {
		return nil, store.NewStoreError("user", "get", "failed to decode user", err)
	}
	return user, nil
}

// updateUser applies update to the documents matching filter and reports
// whether any document matched.
func (s *MongoUserStore) updateUser(ctx context.Context, op string, filter, update any) (bool, error) {
	result, err := s.users.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("user update failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return false, store.NewStoreError("user", op, "failed to update user", err)
	}
	return result.MatchedCount > 0, nil
}

// AddToken implements store.UserStore.AddToken.
func (s *MongoUserStore) AddToken(ctx context.Context, userID uuid.UUID, token string) error {
	matched, err := s.updateUser(ctx, "add_token", byID(userID),
		bson.M{"$push": bson.M{"tokens": token}})
	if err != nil {
		return err
	}
	if !matched {
		return store.ErrUserNotFound
	}
	return nil
}

// RemoveToken implements store.UserStore.RemoveToken.
func (s *MongoUserStore) RemoveToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.updateUser(ctx, "remove_token", byID(userID),
		bson.M{"$pull": bson.M{"tokens": token}})
	return err
}

// ReplaceToken implements store.UserStore.ReplaceToken using the positional
// operator, so the new token takes the old one's slot.
func (s *MongoUserStore) ReplaceToken(ctx context.Context, userID uuid.UUID, oldToken, newToken string) error {
	matched, err := s.updateUser(ctx, "replace_token",
		bson.M{"_id": userID.String(), "tokens": oldToken},
		bson.M{"$set": bson.M{"tokens.$": newToken}})
	if err != nil {
		return err
	}
	if !matched {
		return store.ErrTokenNotFound
	}
	return nil
}

// AddCartItem implements store.UserStore.AddCartItem. An existing line is
// incremented in place as long as the result stays within domain.MaxAmount;
// otherwise a line is pushed, guarded so a concurrent push for the same
// product cannot create a duplicate. If that guard loses the race the
// increment is retried.
func (s *MongoUserStore) AddCartItem(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	pid := productID.String()
	increment := func() (bool, error) {
		return s.updateUser(ctx, "add_cart_item",
			bson.M{"_id": userID.String(), "cart": bson.M{"$elemMatch": bson.M{
				"product": pid,
				"amount":  bson.M{"$lte": domain.MaxAmount - amount},
			}}},
			bson.M{"$inc": bson.M{"cart.$.amount": amount}})
	}

	matched, err := increment()
	if err != nil || matched {
		return err
	}

	matched, err = s.updateUser(ctx, "add_cart_item",
		bson.M{"_id": userID.String(), "cart.product": bson.M{"$ne": pid}},
		bson.M{"$push": bson.M{"cart": cartItemDocument{Product: pid, Amount: amount}}})
	if err != nil || matched {
		return err
	}

	matched, err = increment()
	if err != nil || matched {
		return err
	}
	return s.cartAddFailure(ctx, userID)
}

// cartAddFailure tells an unknown user apart from a line that cannot take
// the increment without exceeding domain.MaxAmount.
func (s *MongoUserStore) cartAddFailure(ctx context.Context, userID uuid.UUID) error {
	n, err := s.users.CountDocuments(ctx, byID(userID), options.Count().SetLimit(1))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to look up user after cart add",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return store.NewStoreError("cart", "add", "failed to look up user", err)
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return domain.NewAmountTooLargeError()
}

// SetCartItemAmount implements store.UserStore.SetCartItemAmount.
func (s *MongoUserStore) SetCartItemAmount(ctx context.Context, userID, productID uuid.UUID, amount int) error {
	_, err := s.updateUser(ctx, "set_cart_amount",
		bson.M{"_id": userID.String(), "cart.product": productID.String()},
		bson.M{"$set": bson.M{"cart.$.amount": amount}})
	return err
}

// RemoveCartItem implements store.UserStore.RemoveCartItem.
func (s *MongoUserStore) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := s.updateUser(ctx, "remove_cart_item", byID(userID),
		bson.M{"$pull": bson.M{"cart": bson.M{"product": productID.String()}}})
	return err
}

// GetCart implements store.UserStore.GetCart.
func (s *MongoUserStore) GetCart(ctx context.Context, userID uuid.UUID) ([]domain.CartItem, error) {
	user, err := s.findUser(ctx, byID(userID),
		options.FindOne().SetProjection(bson.M{"cart": 1}))
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Checkout implements store.UserStore.Checkout as one pipeline update that
// appends the current cart to orders and clears it. The filter only matches a
// non-empty cart, so an empty cart leaves the document untouched.
func (s *MongoUserStore) Checkout(ctx context.Context, userID uuid.UUID, date time.Time) (*domain.Order, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order := domain.NewOrder(nil, date.Truncate(time.Millisecond))

	newOrder := bson.M{
		"_id":      order.ID.String(),
		"products": "$cart",
		"date":     primitive.NewDateTimeFromTime(order.Date),
	}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"orders": bson.M{"$concatArrays": bson.A{
				bson.M{"$ifNull": bson.A{"$orders", bson.A{}}},
				bson.A{newOrder},
			}},
			"cart": bson.A{},
		}}},
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"cart": 1})

	var before userDocument
	err := s.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID.String(), "cart.0": bson.M{"$exists": true}},
		pipeline, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		log.Error("checkout failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("order", "checkout", "failed to check out cart", err)
	}

	products, err := cartToDomain(before.Cart)
	if err != nil {
		return nil, store.NewStoreError("order", "checkout", "failed to decode cart", err)
	}
	order.Products = products

	log.Info("order placed",
		slog.String("user_id", userID.String()),
		slog.String("order_id", order.ID.String()),
		slog.Int("lines", len(order.Products)))
	return order, nil
}

// GetOrders implements store.UserStore.GetOrders.
func (s *MongoUserStore) GetOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	user, err := s.findUser(ctx, byID(userID),
		options.FindOne().SetProjection(bson.M{"orders": 1}))
	if err != nil {
		return nil, err
	}
	return user.Orders, nil
}

type ownedOrderDocument struct {
	UserID  string        `bson:"_id"`
	Account string        `bson:"account"`
	Order   orderDocument `bson:"order"`
}

// ListAllOrders implements store.UserStore.ListAllOrders.
func (s *MongoUserStore) ListAllOrders(ctx context.Context) ([]store.OwnedOrder, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$orders"}},
		{{Key: "$sort", Value: bson.D{{Key: "orders.date", Value: 1}, {Key: "orders._id", Value: 1}}}},
		{{Key: "$project", Value: bson.M{"_id": 1, "account": 1, "order": "$orders"}}},
	}

	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, store.NewStoreError("order", "list_all", "failed to aggregate orders", err)
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []ownedOrderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.NewStoreError("order", "list_all", "failed to decode orders", err)
	}

	orders := make([]store.OwnedOrder, 0, len(docs))
	for _, d := range docs {
		ownerID, err := uuid.Parse(d.UserID)
		if err != nil {
			return nil, store.NewStoreError("order", "list_all", "invalid user id", err)
		}
		order, err := d.Order.toDomain()
		if err != nil {
			return nil, store.NewStoreError("order", "list_all", "failed to decode order", err)
		}
		orders = append(orders, store.OwnedOrder{
			Order: order,
			Owner: domain.UserRef{ID: ownerID, Account: d.Account},
		})
	}
	return orders, nil
}
