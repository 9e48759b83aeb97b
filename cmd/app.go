package main

import (
	"context"
	"fmt"
	"storefront-service/internal/model"
	"storefront-service/internal/storage"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// app holds what every command needs: configuration, logger and an open store
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *storage.Store
	close func() error
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Configuration loaded", cfg.LogConfig()...)

	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	backend, closeFn, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:   cfg,
		log:   log,
		store: storage.NewStore(backend, cfg.Store.Namespace, log),
		close: closeFn,
	}, nil
}

// openBackend connects the configured key-value backend
func openBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Backend, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.InitDB(&cfg.DB, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get database object: %w", err)
		}
		return storage.NewGormBackend(db), sqlDB.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		log.Info("Redis connection established", zap.String("addr", cfg.Redis.Addr))
		return storage.NewRedisBackend(client), client.Close, nil

	default:
		log.Warn("Using in-memory store, data is lost on restart")
		return storage.NewMemoryBackend(), func() error { return nil }, nil
	}
}

// seedStore writes the seed records that are missing
func seedStore(ctx context.Context, store *storage.Store, cfg *config.StoreConfig, log *zap.Logger) error {
	seed, err := model.LoadSeed(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("failed to load seed data: %w", err)
	}

	result, err := store.Seed(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to seed store: %w", err)
	}
	if result.Products {
		for _, p := range seed.Products {
			prometheus.UpdateProductInventory(p.ID, p.Stock)
		}
	}
	log.Info("Store seeded",
		zap.Bool("users", result.Users),
		zap.Bool("products", result.Products),
		zap.String("seed_file", cfg.SeedFile))
	return nil
}
