package config

import (
	"os"
	"strconv"
	"time"

	"arcadia/internal/database"
	"arcadia/internal/messaging"
	"arcadia/internal/search"
	"arcadia/internal/service"
)

// Config holds the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	Database      database.Config
	NATS          messaging.Config
	Elasticsearch search.Config
	Booking       service.BookingConfig

	// Lifecycle sweeper in the consumers binary
	SweepInterval time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8081"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "arcadia"),
			Password:           getEnv("DB_PASSWORD", "arcadia123"),
			DBName:             getEnv("DB_NAME", "arcadia"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 100),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", "nats://localhost:4222"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "arcadia"),
			ClientID:  getEnv("NATS_CLIENT_ID", "arcadia-api"),
		},

		Elasticsearch: search.Config{
			URL:        getEnv("ELASTICSEARCH_URL", "http://localhost:9200"),
			Username:   getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:   getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:      getEnv("ELASTICSEARCH_INDEX", "stations"),
			MaxRetries: getEnvInt("ELASTICSEARCH_MAX_RETRIES", 3),
		},

		Booking: service.BookingConfig{
			LockTimeout:   time.Duration(getEnvInt("BOOKING_LOCK_TIMEOUT_MS", 500)) * time.Millisecond,
			RetryAttempts: getEnvInt("BOOKING_RETRY_ATTEMPTS", 3),
			RetryBackoff:  time.Duration(getEnvInt("BOOKING_RETRY_BACKOFF_MS", 50)) * time.Millisecond,
		},

		SweepInterval: time.Duration(getEnvInt("SWEEP_INTERVAL_SEC", 30)) * time.Second,
	}
}

// getEnv returns the environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable value or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
