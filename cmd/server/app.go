package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/config"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/platform/mongo"
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	"github.com/phrazzld/shop-api/internal/platform/rabbitmq"
	"github.com/phrazzld/shop-api/internal/service"
	"github.com/phrazzld/shop-api/internal/service/auth"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/phrazzld/shop-api/internal/task"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Exactly one of db and mongoClient is set, depending on the driver.
	db          *sql.DB
	mongoClient *mongodriver.Client

	userStore    store.UserStore
	productStore store.ProductStore

	jwtService auth.JWTService
	passwords  service.PasswordManager

	accountService service.AccountService
	cartService    service.CartService
	catalogService service.CatalogService

	eventEmitter *events.InMemoryEventEmitter
	publisher    *rabbitmq.Publisher
	taskQueue    *task.TaskQueue
	workerPool   *task.WorkerPool
}

// newApplication connects to the configured backends and wires stores,
// services and event handlers.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	if err := app.setupStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_hours", cfg.Auth.TokenLifetimeHours)

	app.passwords = auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	if err := app.setupEvents(); err != nil {
		app.cleanup()
		return nil, err
	}

	app.accountService = service.NewAccountService(app.userStore, app.passwords, app.jwtService, logger)
	app.cartService = service.NewCartService(app.userStore, app.productStore, app.eventEmitter, nil, logger)
	app.catalogService = service.NewCatalogService(app.productStore, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	switch app.config.Database.Driver {
	case driverPostgres:
		db, err := setupPostgres(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.db = db

		if err := postgres.Migrate(ctx, db, "up", app.logger); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}

		app.userStore = postgres.NewPostgresUserStore(db, app.logger)
		app.productStore = postgres.NewPostgresProductStore(db, app.logger)

	case driverMongo:
		client, db, err := setupMongo(ctx, app.config, app.logger)
		if err != nil {
			return err
		}
		app.mongoClient = client

		app.userStore = mongo.NewMongoUserStore(db, app.logger)
		app.productStore = mongo.NewMongoProductStore(db, app.logger)

	default:
		return fmt.Errorf("unsupported database driver %q", app.config.Database.Driver)
	}
	return nil
}

// setupEvents always logs events. When an AMQP URL is configured events are
// also published to RabbitMQ from a background worker pool.
func (app *application) setupEvents() error {
	app.eventEmitter = events.NewInMemoryEventEmitter(app.logger)
	app.eventEmitter.RegisterHandler(events.NewLogHandler(app.logger))

	if app.config.Events.AMQPURL == "" {
		return nil
	}

	publisher, err := rabbitmq.NewPublisher(app.config.Events.AMQPURL, app.config.Events.Exchange, app.logger)
	if err != nil {
		return fmt.Errorf("failed to connect event publisher: %w", err)
	}
	app.publisher = publisher

	app.taskQueue = task.NewTaskQueue(app.config.Events.QueueSize, app.logger)
	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: app.config.Events.WorkerCount,
	}, app.logger)
	app.workerPool.Start()

	app.eventEmitter.RegisterHandler(
		task.NewAsyncEventHandler(app.taskQueue, publisher, task.DefaultDeliveryTimeout, app.logger),
	)

	app.logger.Info("event publisher initialized",
		"exchange", app.config.Events.Exchange,
		"worker_count", app.config.Events.WorkerCount,
		"queue_size", app.config.Events.QueueSize)
	return nil
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Pending deliveries are flushed before the broker connection closes.
	if app.taskQueue != nil {
		app.taskQueue.Close()
		app.workerPool.Drain()
	}

	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("error closing event publisher", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	if app.mongoClient != nil {
		if err := app.mongoClient.Disconnect(context.Background()); err != nil {
			app.logger.Error("error disconnecting from mongodb", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
