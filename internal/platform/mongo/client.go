package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/shop-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Index names. The duplicate-key mapping relies on them appearing in the
// server's E11000 message.
const (
	accountIndexName = "account_unique"
	emailIndexName   = "email_unique"
)

// Connect opens a client for uri and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the unique and lookup indexes the stores depend on.
// It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "account", Value: 1}},
			Options: options.Index().SetName(accountIndexName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndexName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "tokens", Value: 1}},
			Options: options.Index().SetName("tokens"),
		},
	}
	if _, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	productIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sell", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("sell_created_at"),
		},
	}
	if _, err := db.Collection(productsCollection).Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	logger.Info("mongodb indexes ensured", slog.String("database", db.Name()))
	return nil
}

// mapDuplicateKey turns a duplicate key error on the users collection into
// ErrAccountExists or ErrEmailExists.
func mapDuplicateKey(err error) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			switch {
			case strings.Contains(e.Message, accountIndexName):
				return fmt.Errorf("%w: %v", store.ErrAccountExists, err)
			case strings.Contains(e.Message, emailIndexName):
				return fmt.Errorf("%w: %v", store.ErrEmailExists, err)
			}
		}
	}
	return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
}
