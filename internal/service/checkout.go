package service

import (
	"context"
	"slices"
	"storefront-service/internal/model"
	"storefront-service/prometheus"
	"sync"

	"go.uber.org/zap"
)

// DecrementStock returns a copy of products with each cart line's quantity taken off its
// product's stock, never going below zero. Lines for missing products are ignored.
func DecrementStock(products []model.Product, cart []model.CartLine) []model.Product {
	out := slices.Clone(products)
	for _, line := range cart {
		idx := model.FindProduct(out, line.ProductID)
		if idx < 0 {
			continue
		}
		out[idx].Stock = max(out[idx].Stock-line.Quantity, 0)
	}
	return out
}

// CheckoutService turns the cart into a purchase
type CheckoutService struct {
	repo CheckoutStore
	log  *zap.Logger
	mu   *sync.Mutex
}

func NewCheckoutService(repo CheckoutStore, log *zap.Logger) *CheckoutService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckoutService{repo: repo, log: log, mu: &sync.Mutex{}}
}

// Checkout decrements stock for every cart line and empties the cart in a single store write.
// Lines above current stock are bought at the available quantity. It returns the priced cart
// as it was before the purchase.
func (s *CheckoutService) Checkout(ctx context.Context) (*Totals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Cart(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	// bill only what is still in stock
	cart = ClampToStock(cart, products)
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	receipt := ComputeTotals(cart, products)
	updated := DecrementStock(products, cart)

	if err := s.repo.CommitCheckout(ctx, updated); err != nil {
		s.log.Error("Checkout commit failed", zap.Error(err))
		return nil, err
	}

	for _, line := range receipt.Lines {
		if idx := model.FindProduct(updated, line.Product.ID); idx >= 0 {
			prometheus.UpdateProductInventory(updated[idx].ID, updated[idx].Stock)
		}
	}
	prometheus.RecordCheckout(receipt.Units)
	s.log.Info("Checkout completed",
		zap.Int("lines", len(receipt.Lines)),
		zap.Int("units", receipt.Units),
		zap.Int("total", receipt.Total))
	return &receipt, nil
}
