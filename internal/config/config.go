// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// Environment is the deployment environment name (e.g., "dev", "prod").
	// It affects naming and tagging only and has no behavioral effect.
	Environment string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// BookingsCollectionURL is the docstore URL for the booking collection
	// (e.g., "dynamodb://bookings?partition_key=id" or "mem://bookings/id").
	BookingsCollectionURL string
	// StoreTimeout bounds individual store operations.
	StoreTimeout time.Duration

	// NotificationsTopicURL is the pubsub URL used to enqueue notification
	// messages (e.g., "awssqs://sqs.us-east-1.amazonaws.com/123/notifications").
	NotificationsTopicURL string
	// NotificationsSubscriptionURL is the pubsub URL the consumer receives from.
	NotificationsSubscriptionURL string
	// PublishTimeout bounds a single enqueue call.
	PublishTimeout time.Duration

	// ConsumerBatchSize is the maximum number of messages processed per batch.
	ConsumerBatchSize int
	// ConsumerBatchWindow is how long the consumer waits to fill a batch after
	// the first message arrives.
	ConsumerBatchWindow time.Duration
	// ConsumerMaxDeliveryAttempts is the redelivery ceiling after which a
	// message is dropped instead of retried. Zero disables the ceiling and
	// defers entirely to the queue's own dead-letter policy.
	ConsumerMaxDeliveryAttempts int

	// RateLimitEnabled indicates whether IP-based rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per IP.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// ShutdownTimeout bounds graceful shutdown of servers and workers.
	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Environment name (naming/tagging only)
		Environment: env.GetString("ENVIRONMENT", "dev"),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Booking store
		BookingsCollectionURL: env.GetString("BOOKINGS_COLLECTION_URL", "mem://bookings/id"),
		StoreTimeout:          env.GetDuration("STORE_TIMEOUT_SECONDS", 5, time.Second),

		// Notification queue
		NotificationsTopicURL:        env.GetString("NOTIFICATIONS_TOPIC_URL", "mem://notifications"),
		NotificationsSubscriptionURL: env.GetString("NOTIFICATIONS_SUBSCRIPTION_URL", "mem://notifications"),
		PublishTimeout:               env.GetDuration("PUBLISH_TIMEOUT_SECONDS", 5, time.Second),

		// Notification consumer
		ConsumerBatchSize:           env.GetInt("CONSUMER_BATCH_SIZE", 10),
		ConsumerBatchWindow:         env.GetDuration("CONSUMER_BATCH_WINDOW_MS", 250, time.Millisecond),
		ConsumerMaxDeliveryAttempts: env.GetInt("CONSUMER_MAX_DELIVERY_ATTEMPTS", 0),

		// Rate Limiting (IP-based)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", false),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "bookings"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Shutdown
		ShutdownTimeout: env.GetDuration("SHUTDOWN_TIMEOUT_SECONDS", 30, time.Second),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
