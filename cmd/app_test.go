package main

import (
	"context"
	"storefront-service/internal/storage"
	"storefront-service/pkg/config"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenBackendMemory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Backend: config.BackendMemory}}

	backend, closeFn, err := openBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryBackend{}, backend)
	assert.NoError(t, closeFn())
}

func TestOpenBackendRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendRedis},
		Redis: config.RedisConfig{Addr: mr.Addr()},
	}

	backend, closeFn, err := openBackend(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &storage.RedisBackend{}, backend)
}

func TestOpenBackendRedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{
		Store: config.StoreConfig{Backend: config.BackendRedis},
		Redis: config.RedisConfig{Addr: addr},
	}
	_, _, err := openBackend(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSeedStore(t *testing.T) {
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryBackend(), "test:", nil)

	require.NoError(t, seedStore(ctx, store, &config.StoreConfig{}, zap.NewNop()))
	products, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 6)

	require.NoError(t, store.SaveProducts(ctx, products[:2]))
	require.NoError(t, seedStore(ctx, store, &config.StoreConfig{}, zap.NewNop()))
	products, err = store.Products(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	err = seedStore(ctx, store, &config.StoreConfig{SeedFile: "does-not-exist.yaml"}, zap.NewNop())
	assert.Error(t, err)
}
