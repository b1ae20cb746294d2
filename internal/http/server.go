// Package http provides the HTTP server for the bookings API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"

	bookingHTTP "github.com/allisson/bookings/internal/booking/http"
	"github.com/allisson/bookings/internal/metrics"
)

// RouterConfig holds the optional router features.
type RouterConfig struct {
	// MeterProvider enables HTTP metrics collection when set.
	MeterProvider metric.MeterProvider
	// MetricsNamespace prefixes the HTTP metric names.
	MetricsNamespace string
	// RateLimitEnabled toggles per-IP rate limiting.
	RateLimitEnabled bool
	// RateLimitRPS is the sustained request rate allowed per client IP.
	RateLimitRPS float64
	// RateLimitBurst is the burst capacity per client IP.
	RateLimitBurst int
	// CORSEnabled toggles CORS handling.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins.
	CORSAllowOrigins string
}

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *gin.Engine
	coll   *docstore.Collection
	logger *slog.Logger
}

// NewServer creates a new HTTP server. The collection is used by the readiness
// probe; a nil collection reports not ready.
func NewServer(
	coll *docstore.Collection,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		coll:   coll,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin router with middleware and booking routes.
func (s *Server) SetupRouter(bookingHandler *bookingHTTP.BookingHandler, config RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if config.MeterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(config.MeterProvider, config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(config.CORSEnabled, config.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	api := router.Group("/")
	if config.RateLimitEnabled {
		api.Use(RateLimitMiddleware(config.RateLimitRPS, config.RateLimitBurst, s.logger))
	}
	api.POST("/bookings", bookingHandler.CreateHandler)
	api.GET("/bookings", bookingHandler.ListHandler)
	api.GET("/bookings/:event_id/:booking_id", bookingHandler.GetHandler)

	s.router = router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the booking store is reachable. A missing
// probe document still proves the store answered.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"store": "ok"}

	if err := s.probeStore(c.Request.Context()); err != nil {
		components["store"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// probeStore performs a cheap store round trip.
func (s *Server) probeStore(ctx context.Context) error {
	if s.coll == nil {
		return errors.New("booking store not configured")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := s.coll.Get(probeCtx, &readinessProbeDoc{ID: "readiness-probe"})
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return err
	}
	return nil
}

// readinessProbeDoc is the throwaway document used by the readiness probe.
type readinessProbeDoc struct {
	ID string `docstore:"id"`
}
