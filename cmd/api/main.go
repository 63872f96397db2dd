// Package main is the entry point for the catalog-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"catalog-service/internal/app/service"
	"catalog-service/internal/auth"
	"catalog-service/internal/config"
	"catalog-service/internal/domain"
	"catalog-service/internal/infra/memory"
	"catalog-service/internal/infra/postgres"
	"catalog-service/internal/infra/postgres/migrations"
	rediscache "catalog-service/internal/infra/redis"
	"catalog-service/internal/infra/tagger"
	"catalog-service/internal/job"
	"catalog-service/internal/logger"
	"catalog-service/internal/transport/httpserver"
	"catalog-service/internal/transport/httpserver/middleware"
	"catalog-service/internal/validator"
	"catalog-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
			Release:     cfg.Sentry.Release,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting catalog-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx := context.Background()
	readiness := make(map[string]middleware.Pinger)

	// Catalog store
	var store domain.CatalogStore
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.NewConnection(
			postgres.Config{
				Host:         cfg.Database.Host,
				Port:         cfg.Database.Port,
				Name:         cfg.Database.Name,
				User:         cfg.Database.User,
				Password:     cfg.Database.Password,
				SSLMode:      cfg.Database.SSLMode,
				MaxOpenConns: cfg.Database.MaxOpenConns,
				MaxIdleConns: cfg.Database.MaxIdleConns,
				MaxLifetime:  cfg.Database.MaxLifetime,
				LogQueries:   cfg.Database.LogQueries,
			},
			log.Named("postgres").Logger,
		)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() { _ = postgres.Close(db) }()

		if cfg.Database.AutoMigrate {
			if err := migrations.Run(db); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
			log.Info("database migrations completed")
		}

		store = postgres.NewStore(db)
		readiness["database"] = postgres.NewPinger(db)
	default:
		mem := memory.NewStore()
		if cfg.Storage.Seed {
			seeded, err := memory.Seed(ctx, mem)
			if err != nil {
				log.Fatal("failed to seed memory store", zap.Error(err))
			}
			log.Info("memory store ready", zap.Bool("seeded", seeded))
		}
		store = mem
	}

	// Redis: page cache and distributed locking
	var (
		cache      domain.Cache
		distLocker locker.DistributedLocker = locker.NewLocal()
	)
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

		pageCache := rediscache.NewCache(redisClient, log.Named("cache").Logger, cfg.Cache.KeyPrefix)
		readiness["redis"] = pageCache
		if cfg.Cache.Enabled {
			cache = pageCache
			log.Info("page cache enabled",
				zap.Duration("page_ttl", cfg.Cache.PageTTL),
				zap.String("key_prefix", cfg.Cache.KeyPrefix),
			)
		}
		distLocker = locker.NewRedisLocker(redisClient, log.Named("locker").Logger)
	} else {
		log.Info("redis disabled, page cache off, using process-local locks")
	}

	// Keyphrase tagging client
	keyphrases := tagger.New(
		tagger.ClientConfig{
			BaseURL:  cfg.Tagging.BaseURL,
			Endpoint: cfg.Tagging.Endpoint,
			Token:    cfg.Tagging.Token,
			Timeout:  cfg.Tagging.Timeout,
			Retry: tagger.RetryConfig{
				MaxAttempts: cfg.Tagging.Retry.MaxAttempts,
				WaitTime:    cfg.Tagging.Retry.WaitTime,
				MaxWaitTime: cfg.Tagging.Retry.MaxWaitTime,
			},
			CB: tagger.CBConfig{
				MaxRequests:  cfg.Tagging.CB.MaxRequests,
				Interval:     cfg.Tagging.CB.Interval,
				Timeout:      cfg.Tagging.CB.Timeout,
				FailureRatio: cfg.Tagging.CB.FailureRatio,
			},
		},
		log.Named("tagger").Logger,
	)

	// Create services
	searchSvc := service.NewSearchService(store, cache, cfg.Cache.PageTTL, log.Logger)
	historySvc := service.NewHistoryService(store, log.Logger)
	taggingSvc := service.NewTaggingService(store, keyphrases, log.Logger)

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		log.Fatal("failed to create token manager", zap.Error(err))
	}

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    1024 * 1024, // 1MB
			Debug:        cfg.App.Debug,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
			TemplatesDir: cfg.Server.TemplatesDir,
		},
		httpserver.Services{
			Search:          searchSvc,
			Catalog:         service.NewCatalogService(store, searchSvc, log.Logger),
			Carousels:       service.NewCarouselService(store, nil, log.Logger),
			Recommendations: service.NewRecommendationService(store, searchSvc, historySvc, log.Logger),
			Tagging:         taggingSvc,
			Tokens:          tokens,
		},
		readiness,
		validator.New(),
		log.Logger,
	)

	// Periodic auto-tagging
	var scheduler *job.TaggingScheduler
	if cfg.Tagging.Enabled {
		if err := keyphrases.HealthCheck(ctx); err != nil {
			log.Warn("keyphrase service not reachable, tagging runs will fail until it is", zap.Error(err))
		}

		scheduler = job.NewTaggingScheduler(
			taggingSvc,
			job.TaggingConfig{
				Interval:  cfg.Tagging.Interval,
				Timeout:   cfg.Tagging.RunTimeout,
				BatchSize: cfg.Tagging.BatchSize,
				OnStartup: cfg.Tagging.OnStartup,
			},
			distLocker,
			log.Named("tagging").Logger,
		)
		scheduler.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if scheduler != nil {
			scheduler.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
