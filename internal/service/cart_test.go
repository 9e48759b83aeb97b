package service

import (
	"context"
	"math"
	"storefront-service/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddUpToStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Price: 10, Stock: 4})
	cart := NewCartService(store, nil)

	for q := 1; q <= 4; q++ {
		line, err := cart.Add(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, line)
		assert.Equal(t, q, line.Quantity)
	}

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 4}}, lines)

	_, err = cart.Add(ctx, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	lines, err = cart.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 4}}, lines)
}

func TestCartAddOutOfStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Stock: 0})
	cart := NewCartService(store, nil)

	for i := 0; i < 3; i++ {
		line, err := cart.Add(ctx, 1)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Nil(t, line)
	}

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartAddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Stock: 3})
	cart := NewCartService(store, nil)

	line, err := cart.Add(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, line)

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartAddKeepsOneLinePerProduct(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t,
		model.Product{ID: 1, Name: "Tea", Stock: 5},
		model.Product{ID: 2, Name: "Coffee", Stock: 5})
	cart := NewCartService(store, nil)

	for _, id := range []int{2, 1, 2, 1, 2} {
		_, err := cart.Add(ctx, id)
		require.NoError(t, err)
	}

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 2, Quantity: 3}, {ProductID: 1, Quantity: 2}}, lines)
}

func TestCartUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *CartService {
		store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Price: 5, Stock: 6})
		require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 2}}))
		return NewCartService(store, nil)
	}

	t.Run("within stock", func(t *testing.T) {
		cart := setup(t)
		res, err := cart.UpdateQuantity(ctx, 1, 5)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.False(t, res.Clamped)
		assert.Equal(t, 5, res.Line.Quantity)
	})

	t.Run("above stock clamps to stock", func(t *testing.T) {
		cart := setup(t)
		res, err := cart.UpdateQuantity(ctx, 1, 50)
		require.NoError(t, err)
		require.NotNil(t, res)
		assert.True(t, res.Clamped)
		assert.Equal(t, 50, res.Requested)
		assert.Equal(t, 6, res.Line.Quantity)

		lines, err := cart.Lines(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 6}}, lines)
	})

	t.Run("below one becomes one", func(t *testing.T) {
		cart := setup(t)
		for _, v := range []int{0, -3} {
			res, err := cart.UpdateQuantity(ctx, 1, v)
			require.NoError(t, err)
			assert.Equal(t, 1, res.Line.Quantity)
		}
	})

	t.Run("missing line is a no-op", func(t *testing.T) {
		cart := setup(t)
		res, err := cart.UpdateQuantity(ctx, 9, 3)
		require.NoError(t, err)
		assert.Nil(t, res)
	})
}

func TestCartUpdateQuantityHugeRequestClampsToStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Stock: 6})
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 1}}))
	cart := NewCartService(store, nil)

	res, err := cart.UpdateQuantity(ctx, 1, CoerceQuantity("99999999999999999999"))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Clamped)
	assert.Equal(t, 6, res.Line.Quantity)
}

func TestCartUpdateQuantityProductGone(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t)
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 2}}))
	cart := NewCartService(store, nil)

	res, err := cart.UpdateQuantity(ctx, 1, 1)
	require.NoError(t, err)
	assert.Nil(t, res)

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 2}}, lines)
}

func TestCartUpdateQuantityOutOfStockRemovesLine(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t, model.Product{ID: 1, Name: "Tea", Stock: 0})
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 2}}))
	cart := NewCartService(store, nil)

	res, err := cart.UpdateQuantity(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, res.Clamped)
	assert.Nil(t, res.Line)

	lines, err := cart.Lines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, backend := newSeededStore(t)
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 2}}))
	cart := NewCartService(store, nil)

	require.NoError(t, cart.Remove(ctx, 1))
	once, _, err := backend.Get(ctx, "cart")
	require.NoError(t, err)

	require.NoError(t, cart.Remove(ctx, 1))
	twice, _, err := backend.Get(ctx, "cart")
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.JSONEq(t, `[{"productId":2,"quantity":2}]`, twice)
}

func TestCartRemoveWritesEmptyCart(t *testing.T) {
	ctx := context.Background()
	store, backend := newSeededStore(t)
	cart := NewCartService(store, nil)

	require.NoError(t, cart.Remove(ctx, 3))

	raw, found, err := backend.Get(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", raw)
}

func TestComputeTotals(t *testing.T) {
	products := []model.Product{
		{ID: 1, Price: 7990, Stock: 12},
		{ID: 2, Price: 1000, Stock: 3},
	}
	lines := []model.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 5},
		{ProductID: 2, Quantity: 3},
	}
	productsBefore := append([]model.Product(nil), products...)
	linesBefore := append([]model.CartLine(nil), lines...)

	totals := ComputeTotals(lines, products)

	require.Len(t, totals.Lines, 2)
	assert.Equal(t, 15980, totals.Lines[0].Subtotal)
	assert.Equal(t, 3000, totals.Lines[1].Subtotal)
	assert.Equal(t, 18980, totals.Total)
	assert.Equal(t, 5, totals.Units)

	assert.Equal(t, productsBefore, products)
	assert.Equal(t, linesBefore, lines)
	assert.Equal(t, totals, ComputeTotals(lines, products))
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil, nil)
	assert.Zero(t, totals.Total)
	assert.NotNil(t, totals.Lines)
}

func TestCoerceQuantity(t *testing.T) {
	cases := map[string]int{
		"3":                    3,
		" 7 ":                  7,
		"+3":                   3,
		"2.9":                  2,
		"5abc":                 5,
		"0":                    1,
		"-4":                   1,
		"":                     1,
		"abc":                  1,
		"NaN":                  1,
		"1e99":                 1,
		"2147483648":           math.MaxInt32,
		"99999999999999999999": math.MaxInt32,
	}
	for raw, want := range cases {
		assert.Equal(t, want, CoerceQuantity(raw), "raw %q", raw)
	}
}

func TestCartViewAndCount(t *testing.T) {
	ctx := context.Background()
	store, _ := newSeededStore(t)
	require.NoError(t, store.SaveCart(ctx, []model.CartLine{{ProductID: 1, Quantity: 3}, {ProductID: 77, Quantity: 1}}))
	cart := NewCartService(store, nil)

	view, err := cart.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 3*7990, view.Total)

	count, err := cart.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestClampToStock(t *testing.T) {
	products := []model.Product{{ID: 1, Stock: 2}, {ID: 2, Stock: 0}, {ID: 3, Stock: 9}}
	cart := []model.CartLine{
		{ProductID: 1, Quantity: 5},
		{ProductID: 2, Quantity: 1},
		{ProductID: 3, Quantity: 4},
		{ProductID: 77, Quantity: 3},
	}
	before := append([]model.CartLine(nil), cart...)

	out := ClampToStock(cart, products)

	assert.Equal(t, []model.CartLine{
		{ProductID: 1, Quantity: 2},
		{ProductID: 3, Quantity: 4},
		{ProductID: 77, Quantity: 3},
	}, out)
	assert.Equal(t, before, cart)
}

func TestCartFollowsLoweredStock(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithProducts(t,
		model.Product{ID: 1, Name: "Tea", Price: 10, Stock: 5},
		model.Product{ID: 2, Name: "Coffee", Price: 20, Stock: 3})
	services := New(store, nil)

	for i := 0; i < 5; i++ {
		_, err := services.Cart.Add(ctx, 1)
		require.NoError(t, err)
	}
	_, err := services.Cart.Add(ctx, 2)
	require.NoError(t, err)

	// stock drops below the cart line after it was added
	_, err = services.Products.Update(ctx, 1, ProductInput{Name: "Tea", Price: intPtr(10), Stock: intPtr(2)})
	require.NoError(t, err)
	_, err = services.Products.Update(ctx, 2, ProductInput{Name: "Coffee", Price: intPtr(20), Stock: intPtr(0)})
	require.NoError(t, err)

	view, err := services.Cart.View(ctx)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, 2, view.Units)
	assert.Equal(t, 20, view.Total)

	count, err := services.Cart.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// adding on top of the clamped line is checked against current stock
	_, err = services.Cart.Add(ctx, 1)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// the next write persists the clamped cart
	require.NoError(t, services.Cart.Remove(ctx, 99))
	stored, err := store.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: 1, Quantity: 2}}, stored)
}
