package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockwatch/internal/adapters/alphavantage"
	"stockwatch/internal/adapters/config"
	"stockwatch/internal/adapters/errors/noop"
	"stockwatch/internal/adapters/errors/sentry"
	"stockwatch/internal/adapters/redis"
	"stockwatch/internal/adapters/sqlite"
	"stockwatch/internal/api"
	"stockwatch/internal/events"
	sqliterepo "stockwatch/internal/repository/sqlite"
	quotesvc "stockwatch/internal/services/quotes"
	watchlistsvc "stockwatch/internal/services/watchlists"
	"stockwatch/internal/workers"
	"stockwatch/pkg/errors"
	"stockwatch/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	// Store
	db, err := sqlite.NewClient(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()
	log.Infow("Database ready", "path", cfg.Database.Path)

	// Snapshot cache: Redis when configured, in-process otherwise
	var (
		redisClient   *redis.Client
		snapshotCache quotesvc.SnapshotCache
	)
	if cfg.Redis.Enabled() {
		redisClient, err = redis.NewClient(cfg.Redis)
		if err != nil {
			log.Warnf("Failed to connect to Redis, using in-process cache: %v", err)
		}
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		snapshotCache = quotesvc.NewRedisSnapshotCache(redisClient)
		log.Info("Snapshot cache: Redis")
	} else {
		snapshotCache = quotesvc.NewMemorySnapshotCache()
		log.Info("Snapshot cache: in-process")
	}

	// Repositories and services
	stockRepo := sqliterepo.NewStockRepository(db.DB())
	watchlistRepo := sqliterepo.NewWatchlistRepository(db.DB())
	bus := events.NewBus()

	hasAPIKey := cfg.AlphaVantage.APIKey != ""
	if !hasAPIKey {
		log.Warn("No Alpha Vantage API key configured, movers will serve the built-in dataset")
	}

	avClient := alphavantage.NewClient(cfg.AlphaVantage)
	quoteService := quotesvc.NewService(avClient, stockRepo, snapshotCache, bus, hasAPIKey)
	watchlistService := watchlistsvc.NewService(watchlistRepo, stockRepo, quoteService, bus)

	// Workers
	scheduler := workers.NewScheduler()
	scheduler.RegisterWorker(workers.NewCacheSweeperWorker(
		quoteService, cfg.Workers.CacheSweeperInterval, cfg.Workers.CacheSweeperEnabled))
	scheduler.RegisterWorker(workers.NewMoversCollectorWorker(
		quoteService, cfg.Workers.MoversCollectorInterval, cfg.Workers.MoversCollectorEnabled && hasAPIKey))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start workers: %v", err)
	}

	// HTTP server
	router := api.NewRouter(
		api.NewStocksHandler(quoteService),
		api.NewWatchlistsHandler(watchlistService),
		api.NewHealthHandler(db.DB(), redisClient, cfg.App.Name, version),
	)
	server := api.NewServer(cfg.API.Port, router)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, serverErr, server, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	serverErr <-chan error,
	server *api.Server,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("Received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			log.Errorw("HTTP server failed", "error", err)
		}
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP shutdown incomplete", "error", err)
	}
	if err := scheduler.Stop(); err != nil {
		log.Warnw("Worker shutdown incomplete", "error", err)
	}
	if err := errorTracker.Flush(shutdownCtx); err != nil {
		log.Warnw("Error tracker flush failed", "error", err)
	}

	log.Info("Shutdown complete")
}
