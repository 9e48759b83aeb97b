package service

import (
	"context"
	"storefront-service/internal/model"
)

// The services depend on these narrow views of the storage gateway. *storage.Store satisfies all of them.

type ProductReader interface {
	Products(ctx context.Context) ([]model.Product, error)
}

type CartStore interface {
	ProductReader
	Cart(ctx context.Context) ([]model.CartLine, error)
	SaveCart(ctx context.Context, lines []model.CartLine) error
}

type CheckoutStore interface {
	ProductReader
	Cart(ctx context.Context) ([]model.CartLine, error)
	CommitCheckout(ctx context.Context, products []model.Product) error
}

type ProductStore interface {
	ProductReader
	SaveProducts(ctx context.Context, products []model.Product) error
	SaveProductsWithSeq(ctx context.Context, products []model.Product, seq int) error
	ProductSeq(ctx context.Context) (int, error)
}

type AccountStore interface {
	Users(ctx context.Context) ([]model.User, error)
	SaveUsers(ctx context.Context, users []model.User) error
	Session(ctx context.Context) (*model.Session, error)
	SaveSession(ctx context.Context, session model.Session) error
	ClearSession(ctx context.Context) error
}
