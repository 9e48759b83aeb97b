package service

import (
	"context"
	"storefront-service/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogFixture = []model.Product{
	{ID: 1, Name: "Sencha", Description: "Green tea", Price: 300, Stock: 2},
	{ID: 2, Name: "Chamomile", Description: "Calming HERBAL blend", Price: 100, Stock: 9},
	{ID: 3, Name: "Coffee", Description: "Dark roast", Price: 300, Stock: 9},
	{ID: 4, Name: "Mate", Description: "Herbal and bold", Price: 200, Stock: 0},
}

func ids(products []model.Product) []int {
	out := make([]int, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseSortMode("price-asc"))
	assert.Equal(t, SortPriceDesc, ParseSortMode(" PRICE-DESC "))
	assert.Equal(t, SortStockDesc, ParseSortMode("stock-desc"))
	assert.Equal(t, SortNone, ParseSortMode(""))
	assert.Equal(t, SortNone, ParseSortMode("name"))
}

func TestQueryFilter(t *testing.T) {
	t.Run("empty query matches everything in order", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3, 4}, ids(Query(catalogFixture, "", SortNone)))
	})

	t.Run("matches description alone", func(t *testing.T) {
		assert.Equal(t, []int{2, 4}, ids(Query(catalogFixture, "herbal", SortNone)))
	})

	t.Run("case-insensitive on name", func(t *testing.T) {
		assert.Equal(t, []int{1}, ids(Query(catalogFixture, "SENCHA", SortNone)))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, Query(catalogFixture, "rooibos", SortNone))
	})
}

func TestQuerySort(t *testing.T) {
	assert.Equal(t, []int{2, 4, 1, 3}, ids(Query(catalogFixture, "", SortPriceAsc)))
	assert.Equal(t, []int{1, 3, 4, 2}, ids(Query(catalogFixture, "", SortPriceDesc)))
	assert.Equal(t, []int{2, 3, 1, 4}, ids(Query(catalogFixture, "", SortStockDesc)))
	// filter first, then sort
	assert.Equal(t, []int{4, 2}, ids(Query(catalogFixture, "herbal", SortPriceDesc)))
}

func TestQueryDoesNotModifyInput(t *testing.T) {
	before := append([]model.Product(nil), catalogFixture...)
	_ = Query(catalogFixture, "", SortPriceAsc)
	assert.Equal(t, before, catalogFixture)
}

func TestCatalogServiceSearch(t *testing.T) {
	store, _ := newSeededStore(t)
	catalog := NewCatalogService(store, nil)

	result, err := catalog.Search(context.Background(), "herbal", SortNone)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "Chamomile & Honey Infusion", result[0].Name)

	all, err := catalog.Search(context.Background(), "", SortPriceAsc)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Price, all[i].Price)
	}
}
