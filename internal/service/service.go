package service

import (
	"storefront-service/internal/storage"
	"sync"

	"go.uber.org/zap"
)

// Services bundles every storefront service over one store
type Services struct {
	Catalog  *CatalogService
	Cart     *CartService
	Checkout *CheckoutService
	Products *ProductDirectory
	Accounts *AccountDirectory
}

// New wires the services. They share one lock so each read-modify-write on the store
// runs to completion before the next one starts.
func New(store *storage.Store, log *zap.Logger) *Services {
	mu := &sync.Mutex{}

	cart := NewCartService(store, log)
	cart.mu = mu
	checkout := NewCheckoutService(store, log)
	checkout.mu = mu
	products := NewProductDirectory(store, log)
	products.mu = mu
	accounts := NewAccountDirectory(store, log)
	accounts.mu = mu

	return &Services{
		Catalog:  NewCatalogService(store, log),
		Cart:     cart,
		Checkout: checkout,
		Products: products,
		Accounts: accounts,
	}
}
