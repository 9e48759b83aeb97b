package service

import (
	"context"
	"storefront-service/internal/model"
	"storefront-service/internal/storage"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBackend records how the store writes to it
type countingBackend struct {
	*storage.MemoryBackend
	sets     int
	setManys int
}

func (b *countingBackend) Set(ctx context.Context, key, value string) error {
	b.sets++
	return b.MemoryBackend.Set(ctx, key, value)
}

func (b *countingBackend) SetMany(ctx context.Context, entries ...storage.Entry) error {
	b.setManys++
	return b.MemoryBackend.SetMany(ctx, entries...)
}

func TestCheckoutScenario(t *testing.T) {
	ctx := context.Background()
	store, _ := newSeededStore(t)
	services := New(store, nil)

	for i := 0; i < 3; i++ {
		_, err := services.Cart.Add(ctx, 1)
		require.NoError(t, err)
	}

	receipt, err := services.Checkout.Checkout(ctx)
	require.NoError(t, err)
	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, 3, receipt.Units)
	assert.Equal(t, 3*7990, receipt.Total)
	assert.Equal(t, 12, receipt.Lines[0].Product.Stock)

	product, err := services.Products.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 9, product.Stock)

	lines, err := services.Cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	store, _ := newSeededStore(t)
	before, err := store.Products(ctx)
	require.NoError(t, err)

	_, err = NewCheckoutService(store, nil).Checkout(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)

	after, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCheckoutSingleWrite(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{MemoryBackend: storage.NewMemoryBackend()}
	store := storage.NewStore(backend, "", nil)
	require.NoError(t, store.SaveProducts(ctx, []model.Product{{ID: 1, Price: 10, Stock: 4}}))
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 2}}))
	backend.sets = 0

	_, err := NewCheckoutService(store, nil).Checkout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, backend.sets)
	assert.Equal(t, 1, backend.setManys)
}

func TestDecrementStock(t *testing.T) {
	products := []model.Product{
		{ID: 1, Stock: 5},
		{ID: 2, Stock: 1},
		{ID: 3, Stock: 7},
	}
	cart := []model.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 4},
		{ProductID: 99, Quantity: 1},
	}

	out := DecrementStock(products, cart)

	assert.Equal(t, 3, out[0].Stock)
	assert.Equal(t, 0, out[1].Stock, "stock is floored at zero")
	assert.Equal(t, 7, out[2].Stock)
	assert.Equal(t, 5, products[0].Stock, "input is not modified")
}

func TestCheckoutSkipsVanishedProducts(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Price: 100, Stock: 3})
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 5, Quantity: 2}}))

	receipt, err := NewCheckoutService(store, nil).Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, receipt.Total)

	products, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Product{{ID: 1, Price: 100, Stock: 2}}, products)
}

func TestCheckoutBillsOnlyAvailableStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Price: 10, Stock: 5})
	services := New(store, nil)

	for i := 0; i < 5; i++ {
		_, err := services.Cart.Add(ctx, 1)
		require.NoError(t, err)
	}
	_, err := services.Products.Update(ctx, 1, ProductInput{Name: "Tea", Price: intPtr(10), Stock: intPtr(2)})
	require.NoError(t, err)

	receipt, err := services.Checkout.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Units)
	assert.Equal(t, 20, receipt.Total)

	products, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, products[0].Stock)

	lines, err := store.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCheckoutNothingLeftInStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Price: 10, Stock: 0})
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 3}}))

	_, err := NewCheckoutService(store, nil).Checkout(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)

	products, err := store.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, products[0].Stock)
}
