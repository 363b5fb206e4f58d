package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/shop-api/internal/config"
	"github.com/phrazzld/shop-api/internal/platform/mongo"
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

const (
	driverPostgres = "postgres"
	driverMongo    = "mongo"

	connectTimeout = 5 * time.Second
)

// setupPostgres opens the connection pool and verifies it with a ping.
func setupPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", "driver", driverPostgres)
	return db, nil
}

// setupMongo connects to MongoDB and makes sure the unique indexes exist.
func setupMongo(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (*mongodriver.Client, *mongodriver.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	db := client.Database(cfg.Database.Name)
	if err := mongo.EnsureIndexes(ctx, db, logger); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	logger.Info("database connection established",
		"driver", driverMongo,
		"database", cfg.Database.Name)
	return client, db, nil
}

// runMigrateCommand executes a single goose command against postgres.
func runMigrateCommand(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != driverPostgres {
		return errors.New("migrations only apply to the postgres driver")
	}

	db, err := setupPostgres(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	return postgres.Migrate(ctx, db, command, logger)
}
