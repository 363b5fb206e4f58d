package config

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Events   EventsConfig   `mapstructure:"events" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
}

// DatabaseConfig selects and locates the backing store.
type DatabaseConfig struct {
	// Driver is either "postgres" or "mongo".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres mongo"`
	URL    string `mapstructure:"url" validate:"required,url"`
	// Name is the MongoDB database name. Ignored by the postgres driver.
	Name string `mapstructure:"name" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
	BcryptCost         int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// EventsConfig configures domain event publishing. When AMQPURL is empty
// events are only logged. Broker deliveries run on a background worker pool.
type EventsConfig struct {
	AMQPURL     string `mapstructure:"amqp_url" validate:"omitempty,url"`
	Exchange    string `mapstructure:"exchange" validate:"required"`
	WorkerCount int    `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize   int    `mapstructure:"queue_size" validate:"required,gt=0"`
}
