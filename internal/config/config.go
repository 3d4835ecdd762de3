package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Dispatch DispatchConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Broker   BrokerConfig
	NewRelic NewRelicConfig

	// LogLevel is the minimum slog level: debug, info, warn or error.
	LogLevel string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DispatchConfig holds the ride-dispatch settings.
type DispatchConfig struct {
	// Table is the table (Postgres) or key namespace (Redis) rides are written to.
	Table string

	// IdentityClaim names the authorizer claim that carries the username.
	IdentityClaim string

	// DistinctAuthStatus answers a missing authorization with 401 instead of
	// the generic 500.
	DistinctAuthStatus bool
}

// StoreConfig selects the ride store.
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Migrate  bool
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// BrokerConfig holds RabbitMQ configuration. Publishing is off when URL is empty.
type BrokerConfig struct {
	URL      string
	Exchange string

	// QueueSize bounds the ride events waiting to be published. Events
	// offered to a full queue are dropped.
	QueueSize int
}

// Enabled reports whether ride events should be published.
func (c BrokerConfig) Enabled() bool {
	return c.URL != ""
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Dispatch: DispatchConfig{
			Table:              getEnv("RIDES_TABLE", "rides"),
			IdentityClaim:      getEnv("IDENTITY_CLAIM_KEY", "cognito:username"),
			DistinctAuthStatus: getBoolEnv("DISPATCH_DISTINCT_AUTH_STATUS", false),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreRedis)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "rydes"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Migrate:  getBoolEnv("DB_MIGRATE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Broker: BrokerConfig{
			URL:       getEnv("AMQP_URL", ""),
			Exchange:  getEnv("AMQP_EXCHANGE", "rides_topic"),
			QueueSize: getIntEnv("AMQP_QUEUE_SIZE", 256),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "rydes"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	switch c.Store.Backend {
	case StoreRedis, StorePostgres:
	default:
		problems = append(problems, fmt.Sprintf("STORE_BACKEND must be %q or %q, got %q", StoreRedis, StorePostgres, c.Store.Backend))
	}
	if strings.TrimSpace(c.Dispatch.Table) == "" {
		problems = append(problems, "RIDES_TABLE must not be blank")
	}
	if strings.TrimSpace(c.Dispatch.IdentityClaim) == "" {
		problems = append(problems, "IDENTITY_CLAIM_KEY must not be blank")
	}
	if c.Broker.QueueSize < 1 {
		problems = append(problems, fmt.Sprintf("AMQP_QUEUE_SIZE must be positive, got %d", c.Broker.QueueSize))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
