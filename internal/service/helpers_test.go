package service

import (
	"context"
	"storefront-service/internal/model"
	"storefront-service/internal/storage"
	"testing"

	"github.com/stretchr/testify/require"
)

func newSeededStore(t *testing.T) (*storage.Store, *storage.MemoryBackend) {
	t.Helper()

	backend := storage.NewMemoryBackend()
	store := storage.NewStore(backend, "", nil)
	seed, err := model.DefaultSeed()
	require.NoError(t, err)
	_, err = store.Seed(context.Background(), seed)
	require.NoError(t, err)
	return store, backend
}

func newStoreWithProducts(t *testing.T, products ...model.Product) *storage.Store {
	t.Helper()

	store := storage.NewStore(storage.NewMemoryBackend(), "", nil)
	require.NoError(t, store.SaveProducts(context.Background(), products))
	return store
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
