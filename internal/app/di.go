// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/docstore"

	bookingHTTP "github.com/allisson/bookings/internal/booking/http"
	"github.com/allisson/bookings/internal/booking/repository"
	bookingUsecase "github.com/allisson/bookings/internal/booking/usecase"
	"github.com/allisson/bookings/internal/config"
	"github.com/allisson/bookings/internal/http"
	"github.com/allisson/bookings/internal/metrics"
	"github.com/allisson/bookings/internal/notification/consumer"
	"github.com/allisson/bookings/internal/notification/notifier"
	"github.com/allisson/bookings/internal/notification/queue"
	"github.com/allisson/bookings/internal/storage"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	collection      *docstore.Collection
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Repositories and transports
	bookingRepo *repository.DocstoreBookingRepository
	publisher   *queue.Publisher
	subscriber  *queue.Subscriber
	notifier    notifier.Notifier

	// Use Cases
	bookingUseCase bookingUsecase.BookingUseCase

	// Servers and Workers
	httpServer    *http.Server
	metricsServer *http.MetricsServer
	consumer      *consumer.Consumer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	collectionInit      sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	bookingRepoInit     sync.Once
	publisherInit       sync.Once
	subscriberInit      sync.Once
	notifierInit        sync.Once
	bookingUseCaseInit  sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	consumerInit        sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Collection returns the booking docstore collection.
func (c *Container) Collection(ctx context.Context) (*docstore.Collection, error) {
	c.collectionInit.Do(func() {
		coll, err := storage.OpenCollection(ctx, c.config.BookingsCollectionURL)
		if err != nil {
			c.initErrors["collection"] = err
			return
		}
		c.collection = coll
	})
	if storedErr, exists := c.initErrors["collection"]; exists {
		return nil, storedErr
	}
	return c.collection, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
			return
		}
		c.metricsProvider = provider
	})
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. When metrics are
// disabled a no-op implementation is returned.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.businessMetricsInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		if provider == nil {
			c.businessMetrics = metrics.NewNoOpBusinessMetrics()
			return
		}
		m, err := metrics.NewBusinessMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			c.config.Environment,
		)
		if err != nil {
			c.initErrors["businessMetrics"] = err
			return
		}
		c.businessMetrics = m
	})
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// BookingRepository returns the booking repository instance.
func (c *Container) BookingRepository(ctx context.Context) (*repository.DocstoreBookingRepository, error) {
	c.bookingRepoInit.Do(func() {
		coll, err := c.Collection(ctx)
		if err != nil {
			c.initErrors["bookingRepo"] = fmt.Errorf("failed to get collection for booking repository: %w", err)
			return
		}
		c.bookingRepo = repository.NewDocstoreBookingRepository(coll, c.config.StoreTimeout)
	})
	if storedErr, exists := c.initErrors["bookingRepo"]; exists {
		return nil, storedErr
	}
	return c.bookingRepo, nil
}

// Publisher returns the notification queue publisher.
func (c *Container) Publisher(ctx context.Context) (*queue.Publisher, error) {
	c.publisherInit.Do(func() {
		publisher, err := queue.OpenPublisher(ctx, c.config.NotificationsTopicURL, c.config.PublishTimeout)
		if err != nil {
			c.initErrors["publisher"] = err
			return
		}
		c.publisher = publisher
	})
	if storedErr, exists := c.initErrors["publisher"]; exists {
		return nil, storedErr
	}
	return c.publisher, nil
}

// Subscriber returns the notification queue subscriber.
func (c *Container) Subscriber(ctx context.Context) (*queue.Subscriber, error) {
	c.subscriberInit.Do(func() {
		subscriber, err := queue.OpenSubscriber(ctx, c.config.NotificationsSubscriptionURL)
		if err != nil {
			c.initErrors["subscriber"] = err
			return
		}
		c.subscriber = subscriber
	})
	if storedErr, exists := c.initErrors["subscriber"]; exists {
		return nil, storedErr
	}
	return c.subscriber, nil
}

// Notifier returns the notification sink.
func (c *Container) Notifier() notifier.Notifier {
	c.notifierInit.Do(func() {
		c.notifier = notifier.NewLogNotifier(c.Logger())
	})
	return c.notifier
}

// BookingUseCase returns the booking use case instance wrapped with metrics.
func (c *Container) BookingUseCase(ctx context.Context) (bookingUsecase.BookingUseCase, error) {
	c.bookingUseCaseInit.Do(func() {
		bookingRepo, err := c.BookingRepository(ctx)
		if err != nil {
			c.initErrors["bookingUseCase"] = fmt.Errorf("failed to get booking repository for booking use case: %w", err)
			return
		}

		publisher, err := c.Publisher(ctx)
		if err != nil {
			c.initErrors["bookingUseCase"] = fmt.Errorf("failed to get publisher for booking use case: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["bookingUseCase"] = fmt.Errorf("failed to get metrics for booking use case: %w", err)
			return
		}

		useCase := bookingUsecase.NewBookingUseCase(bookingRepo, publisher, c.Logger())
		c.bookingUseCase = bookingUsecase.NewBookingUseCaseWithMetrics(useCase, businessMetrics)
	})
	if storedErr, exists := c.initErrors["bookingUseCase"]; exists {
		return nil, storedErr
	}
	return c.bookingUseCase, nil
}

// HTTPServer returns the HTTP server instance.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		coll, err := c.Collection(ctx)
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get collection for http server: %w", err)
			return
		}

		useCase, err := c.BookingUseCase(ctx)
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get booking use case for http server: %w", err)
			return
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["httpServer"] = fmt.Errorf("failed to get metrics provider for http server: %w", err)
			return
		}

		logger := c.Logger()
		server := http.NewServer(coll, c.config.ServerHost, c.config.ServerPort, logger)

		routerConfig := http.RouterConfig{
			MetricsNamespace: c.config.MetricsNamespace,
			RateLimitEnabled: c.config.RateLimitEnabled,
			RateLimitRPS:     c.config.RateLimitRequestsPerSec,
			RateLimitBurst:   c.config.RateLimitBurst,
			CORSEnabled:      c.config.CORSEnabled,
			CORSAllowOrigins: c.config.CORSAllowOrigins,
		}
		if provider != nil {
			routerConfig.MeterProvider = provider.MeterProvider()
		}

		server.SetupRouter(bookingHTTP.NewBookingHandler(useCase, logger), routerConfig)
		c.httpServer = server
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Consumer returns the notification consumer instance.
func (c *Container) Consumer(ctx context.Context) (*consumer.Consumer, error) {
	c.consumerInit.Do(func() {
		subscriber, err := c.Subscriber(ctx)
		if err != nil {
			c.initErrors["consumer"] = fmt.Errorf("failed to get subscriber for consumer: %w", err)
			return
		}

		bookingRepo, err := c.BookingRepository(ctx)
		if err != nil {
			c.initErrors["consumer"] = fmt.Errorf("failed to get booking repository for consumer: %w", err)
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["consumer"] = fmt.Errorf("failed to get metrics for consumer: %w", err)
			return
		}

		c.consumer = consumer.NewConsumer(
			subscriber,
			bookingRepo,
			c.Notifier(),
			businessMetrics,
			c.Logger(),
			consumer.Config{
				BatchSize:           c.config.ConsumerBatchSize,
				BatchWindow:         c.config.ConsumerBatchWindow,
				MaxDeliveryAttempts: c.config.ConsumerMaxDeliveryAttempts,
			},
		)
	})
	if storedErr, exists := c.initErrors["consumer"]; exists {
		return nil, storedErr
	}
	return c.consumer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.subscriber != nil {
		if err := c.subscriber.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("subscriber shutdown: %w", err))
		}
	}

	if c.publisher != nil {
		if err := c.publisher.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("publisher shutdown: %w", err))
		}
	}

	if c.collection != nil {
		if err := c.collection.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("collection close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}
