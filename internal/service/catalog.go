package service

import (
	"cmp"
	"context"
	"slices"
	"storefront-service/internal/model"
	"strings"

	"go.uber.org/zap"
)

// SortMode orders catalog results
type SortMode string

const (
	SortNone      SortMode = "none"
	SortPriceAsc  SortMode = "price-asc"
	SortPriceDesc SortMode = "price-desc"
	SortStockDesc SortMode = "stock-desc"
)

// ParseSortMode maps a raw control value to a SortMode. Unknown values mean no sorting.
func ParseSortMode(raw string) SortMode {
	switch mode := SortMode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case SortPriceAsc, SortPriceDesc, SortStockDesc:
		return mode
	default:
		return SortNone
	}
}

// Matches reports whether query is a case-insensitive substring of the product's name and description.
// An empty query matches every product.
func Matches(p model.Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name+" "+p.Description), q)
}

// Filter keeps the products matching query, in their original order
func Filter(products []model.Product, query string) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}

// Query filters then stably sorts the products. The input slice is not modified.
func Query(products []model.Product, query string, mode SortMode) []model.Product {
	out := Filter(products, query)

	switch mode {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortStockDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return cmp.Compare(b.Stock, a.Stock) })
	}
	return out
}

// CatalogService answers storefront catalog searches
type CatalogService struct {
	repo ProductReader
	log  *zap.Logger
}

func NewCatalogService(repo ProductReader, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{repo: repo, log: log}
}

// Search reads the catalog and applies Query
func (s *CatalogService) Search(ctx context.Context, query string, mode SortMode) ([]model.Product, error) {
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}

	result := Query(products, query, mode)
	s.log.Debug("Catalog searched",
		zap.String("query", query),
		zap.String("sort", string(mode)),
		zap.Int("count", len(result)))
	return result, nil
}
