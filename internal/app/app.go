// Package app wires configuration, storage, cache, events and transport into
// a runnable pricing service.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dinehq/pricingservice/internal/cache"
	"github.com/dinehq/pricingservice/internal/circuitbreaker"
	"github.com/dinehq/pricingservice/internal/config"
	"github.com/dinehq/pricingservice/internal/events"
	"github.com/dinehq/pricingservice/internal/log"
	"github.com/dinehq/pricingservice/internal/metrics"
	"github.com/dinehq/pricingservice/internal/pricing"
	"github.com/dinehq/pricingservice/internal/ratelimit"
	"github.com/dinehq/pricingservice/internal/repo"
	"github.com/dinehq/pricingservice/internal/repo/postgres"
	"github.com/dinehq/pricingservice/internal/server"
	"github.com/dinehq/pricingservice/internal/service"
	"github.com/dinehq/pricingservice/internal/tracing"
)

// App represents the application
type App struct {
	config         *config.Config
	logger         *zap.Logger
	store          *postgres.Store
	occupancyCache *cache.Cache
	publisher      events.Publisher
	httpServer     *server.HTTPServer
	metricsServer  *metrics.Server
	tracingStop    func()
}

// New creates a new application instance
func New(cfg *config.Config) (*App, error) {
	// Initialize logger
	if err := log.Init(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger := log.L(context.Background())

	logger.Info("Initializing pricing service application",
		zap.String("http_addr", cfg.Server.Addr),
		zap.String("metrics_addr", cfg.Server.MetricsAddr))

	var tracingStop func()
	if tracing.IsEnabled() {
		stop, err := tracing.Init(tracing.DefaultConfig(), logger)
		if err != nil {
			logger.Warn("Tracing initialization failed, continuing without tracing",
				zap.Error(err))
		} else {
			tracingStop = stop
		}
	}

	// Initialize database-backed store
	store, err := postgres.NewStore(cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Occupancy lookups retry transient failures, then go through a circuit
	// breaker, then an optional Redis cache. Any layer failing degrades to
	// direct or unknown occupancy.
	var occupancy repo.OccupancyProvider = repo.NewRetryingOccupancyProvider(
		store.Occupancy(), cfg.Pricing.CollaboratorRetries, logger)
	occupancy = repo.NewGuardedOccupancyProvider(
		occupancy, circuitbreaker.DefaultConfig(), logger)

	occupancyCache, err := cache.NewCache(cfg.Redis.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Warn("Redis initialization failed, continuing without occupancy cache",
			zap.Error(err),
			zap.String("redis_addr", cfg.Redis.GetRedisAddr()))
		occupancyCache = nil
	} else {
		ttl := time.Duration(cfg.Pricing.OccupancyCacheTTL) * time.Second
		occupancy = cache.NewCachedOccupancyProvider(occupancy, occupancyCache, ttl)
	}

	// Rule change events are optional; without Kafka the service still works.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.GetBrokerList(), cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("Kafka initialization failed, continuing without rule events",
				zap.Error(err),
				zap.String("brokers", cfg.Kafka.Brokers))
		} else {
			publisher = kafkaPublisher
		}
	}

	calc := pricing.NewCalculator(cfg.Pricing.RoundingIncrement)
	engine := pricing.NewEngine(store.Rules(), occupancy, store.SpecialDates(), calc).
		WithForecastSlots(cfg.Pricing.ForecastSlots)

	pricingService := service.NewPricingService(engine, store.Rules(), publisher, cfg.Pricing)

	var limiter ratelimit.RateLimiter
	if occupancyCache != nil {
		limiter = ratelimit.NewRedisRateLimiter(occupancyCache.Client(),
			ratelimit.DefaultConfig().RequestsPerMinute, logger)
	}

	return &App{
		config:         cfg,
		logger:         logger,
		store:          store,
		occupancyCache: occupancyCache,
		publisher:      publisher,
		httpServer:     server.NewHTTPServer(cfg, pricingService, limiter),
		metricsServer:  metrics.NewServer(cfg.Server.MetricsAddr, logger),
		tracingStop:    tracingStop,
	}, nil
}

// Run starts the application and blocks until the HTTP server stops.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("Starting pricing service application")

	go func() {
		if err := a.metricsServer.Start(ctx); err != nil {
			a.logger.Error("Metrics server error", zap.Error(err))
		}
	}()

	if err := a.httpServer.Serve(ctx); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down pricing service application")

	if err := a.metricsServer.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to shut down metrics server", zap.Error(err))
	}

	if err := a.publisher.Close(); err != nil {
		a.logger.Error("Failed to close event publisher", zap.Error(err))
	}

	if a.occupancyCache != nil {
		if err := a.occupancyCache.Close(); err != nil {
			a.logger.Error("Failed to close redis client", zap.Error(err))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("Failed to close store", zap.Error(err))
		}
	}

	if a.tracingStop != nil {
		a.tracingStop()
	}

	a.logger.Info("Application shutdown complete")
	return nil
}
