// StoreOps backend server.
//
// Boots configuration, logging, telemetry, the database, Redis, the event
// bus and the HTTP API, then blocks until SIGINT/SIGTERM and shuts the
// stack down in reverse order.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcatalog "github.com/storeops/backend/internal/application/catalog"
	"github.com/storeops/backend/internal/application/reconcile"
	"github.com/storeops/backend/internal/infrastructure/auth"
	"github.com/storeops/backend/internal/infrastructure/cache"
	"github.com/storeops/backend/internal/infrastructure/config"
	"github.com/storeops/backend/internal/infrastructure/csvimport"
	"github.com/storeops/backend/internal/infrastructure/event"
	"github.com/storeops/backend/internal/infrastructure/logger"
	"github.com/storeops/backend/internal/infrastructure/persistence"
	"github.com/storeops/backend/internal/infrastructure/telemetry"
	"github.com/storeops/backend/internal/interfaces/http/handler"
	"github.com/storeops/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const (
	shutdownTimeout = 30 * time.Second
	summaryCacheTTL = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("starting storeops backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Telemetry comes up first so everything below is instrumented.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("init tracer provider: %w", err)
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("init meter provider: %w", err)
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.App.Name,
	}, log)
	if err != nil {
		return fmt.Errorf("init profiler: %w", err)
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("failed to link span profiles", zap.Error(err))
		}
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Warn("failed to register database tracing", zap.Error(err))
	}

	// Redis is optional: without it the server falls back to in-process
	// caching and revocation, losing cross-instance invalidation only.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisAvailable := true
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, using in-process fallbacks", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
		redisAvailable = false
	}

	productRepo := persistence.NewGormProductRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	returnRepo := persistence.NewGormReturnRepository(db.DB)
	counterRepo := persistence.NewGormCounterRepository(db.DB)

	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(ctx); err != nil {
		return fmt.Errorf("start event bus: %w", err)
	}

	productService := appcatalog.NewProductService(productRepo, saleRepo, counterRepo, bus)
	importService := appcatalog.NewProductImportServiceWithLimits(
		productRepo, saleRepo, productService,
		appcatalog.ImportLimits{
			MaxRows:   cfg.Import.MaxRows,
			MaxErrors: cfg.Import.MaxErrors,
			Delimiter: cfg.Import.FieldDelimiter,
		})
	locatorService := reconcile.NewLocatorService(saleRepo, receiptRepo, productRepo)
	ledgerService := reconcile.NewLedgerService(returnRepo, saleRepo, receiptRepo, productRepo, bus)
	statsService := reconcile.NewStatsService(returnRepo)

	var summaryCache reconcile.SummaryCache
	if redisAvailable {
		summaryCache = cache.NewRedisSummaryCache(redisClient, summaryCacheTTL)
	} else {
		summaryCache = cache.NewInMemorySummaryCache(summaryCacheTTL)
	}
	cachedStats := reconcile.NewCachedStatsService(statsService, summaryCache, log)

	bus.Subscribe(cache.NewSummaryInvalidationHandler(summaryCache, log))

	refreshListener := reconcile.NewRefreshListener(cachedStats, log)
	bus.Subscribe(refreshListener)
	go refreshListener.Run(ctx)

	if redisAvailable {
		bus.Subscribe(event.NewRedisNotifier(redisClient, event.DefaultReturnsChannel, log))
		subscriber := event.NewRedisSubscriber(redisClient, event.DefaultReturnsChannel, refreshListener, log)
		go func() {
			if err := subscriber.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("redis subscriber stopped", zap.Error(err))
			}
		}()
	}

	if meterProvider.IsEnabled() {
		ledgerMetrics, err := telemetry.NewLedgerMetrics(meterProvider.Meter("storeops.ledger"))
		if err != nil {
			log.Warn("failed to create ledger metrics", zap.Error(err))
		} else {
			bus.Subscribe(ledgerMetrics)
		}
	}

	sessionStore := csvimport.NewInMemorySessionStore(cfg.Import.SessionTTL)

	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	if redisAvailable {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	engine := router.New(router.Dependencies{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		MeterProvider:  meterProvider,
		TracingEnabled: cfg.Telemetry.Enabled,
	}, router.Handlers{
		System:        handler.NewSystemHandler(db, redisClient, version, log),
		Product:       handler.NewProductHandler(productService, log),
		ProductImport: handler.NewProductImportHandler(importService, sessionStore, log),
		Locator:       handler.NewLocatorHandler(locatorService, log),
		Returns:       handler.NewReturnsHandler(ledgerService, log),
		Stats:         handler.NewStatsHandler(cachedStats, log),
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown failed", zap.Error(err))
	}
	sessionStore.Stop()
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("meter provider shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer provider shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("profiler shutdown failed", zap.Error(err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("redis close failed", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("database close failed", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
