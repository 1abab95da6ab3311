package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/scout/internal/config"
	"github.com/MrSnakeDoc/scout/internal/domain"
	"github.com/MrSnakeDoc/scout/internal/httpserver"
	"github.com/MrSnakeDoc/scout/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scout/internal/index"
	"github.com/MrSnakeDoc/scout/internal/logger"
	"github.com/MrSnakeDoc/scout/internal/notify"
	"github.com/MrSnakeDoc/scout/internal/redis"
	"github.com/MrSnakeDoc/scout/internal/scheduler"
	"github.com/MrSnakeDoc/scout/internal/search"
	"github.com/MrSnakeDoc/scout/internal/sources/platforms"
	redisstore "github.com/MrSnakeDoc/scout/internal/store/redis"
	"github.com/MrSnakeDoc/scout/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	catalog     *index.Catalog
	refresher   *scheduler.CatalogRefresher
	alerts      *scheduler.PriceAlertEvaluator
	gc          *scheduler.GarbageCollector
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
		Addr:           cfg.RedisAddr,
		User:           cfg.RedisUser,
		Password:       cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	store := redisstore.NewStore(redisClient)
	catalog := index.NewCatalog()

	// Warm the catalog and the trained model from Redis before serving.
	syncer := scheduler.NewCatalogSyncer(store, catalog, loggerClient, cfg.TFIDFMaxFeatures)
	if err := syncer.Sync(context.Background()); err != nil {
		loggerClient.Warn("failed to sync catalog from redis on startup, will refill from refresh",
			logger.Error(err))
	}

	// Platform adapter definitions
	platformCfg, err := platforms.NewLoader(cfg.PlatformFile).Load()
	if err != nil {
		loggerClient.Errorf("Failed to load platform definitions: %v", err)
		os.Exit(1)
	}

	// Shared by every adapter; deadlines come from the aggregator's
	// per-task contexts, not from the client.
	httpClient := &http.Client{}

	registry := platforms.BuildRegistry(platformCfg, httpClient)
	trust := platforms.BuildTrustTable(platformCfg)
	loggerClient.Info("platform adapters loaded",
		logger.Int("count", registry.Len()))

	engine := domain.NewEngine(cfg.Weights(), trust)

	aggregator := search.NewAggregator(registry, loggerClient, cfg.PlatformTimeout, cfg.OverallTimeout)

	service := search.NewService(aggregator, engine, catalog, store, loggerClient, search.Options{
		ResultTarget:        cfg.ResultTarget,
		ResultFloor:         cfg.ResultFloor,
		ResultCeiling:       cfg.ResultCeiling,
		SimilarityThreshold: cfg.SimilarityThreshold,
	})

	// Manual refresh trigger, shared between the endpoint and the cron.
	refreshTrigger := make(chan struct{}, 1)

	refresher := scheduler.NewCatalogRefresher(
		aggregator,
		store,
		catalog,
		loggerClient,
		cfg.RefreshQueries,
		cfg.ResultTarget,
		cfg.TFIDFMaxFeatures,
		cfg.RefreshSchedule,
		refreshTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		store,
		catalog,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	// Price-drop alerts only run when a Telegram token is configured.
	var alerts *scheduler.PriceAlertEvaluator
	if cfg.TelegramToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			loggerClient.Warn("telegram notifier unavailable, price alerts disabled",
				logger.Error(err))
		} else {
			alerts = scheduler.NewPriceAlertEvaluator(catalog, notifier, loggerClient, cfg.AlertInterval)
		}
	} else {
		loggerClient.Info("telegram token not configured, price alerts disabled")
	}

	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Version:           version.Version,
		Commit:            version.Commit,
		BuildDate:         version.BuildDate,
		GoVersion:         version.GoVersion,
		TimeNow:           time.Now,
		Search:            service,
		Store:             store,
		Catalog:           catalog,
		RedisClient:       redisClient,
		RefreshTrigger:    refreshTrigger,
		TrustProxy:        cfg.TrustProxy,
		RateLimitBurst:    cfg.RateLimitBurst,
		RateLimitPerMin:   cfg.RateLimitPerMin,
		RateLimitDisabled: cfg.RateLimitDisabled,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		catalog:     catalog,
		refresher:   refresher,
		alerts:      alerts,
		gc:          gc,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Scout v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Scout %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start catalog refresher: %w", err)
	}
	a.logger.Info("catalog refresher started",
		logger.String("schedule", a.cfg.RefreshSchedule))

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	if a.alerts != nil {
		if err := a.alerts.Start(ctx); err != nil {
			return fmt.Errorf("failed to start price alerts: %w", err)
		}
		a.logger.Info("price alert evaluator started",
			logger.Duration("interval", a.cfg.AlertInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.refresher.Stop()
	a.gc.Stop()
	if a.alerts != nil {
		a.alerts.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Scout stopped cleanly")
	return nil
}
