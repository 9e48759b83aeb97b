package service

import (
	"context"
	"math"
	"storefront-service/internal/model"
	"storefront-service/prometheus"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// LineTotal is a cart line joined with its product
type LineTotal struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
	Subtotal int           `json:"subtotal"`
}

// Totals summarizes a cart. Lines whose product no longer exists are left out.
type Totals struct {
	Lines []LineTotal `json:"lines"`
	Units int         `json:"units"`
	Total int         `json:"total"`
}

// ComputeTotals prices every line whose product still exists. It does not modify its arguments.
func ComputeTotals(cart []model.CartLine, products []model.Product) Totals {
	totals := Totals{Lines: make([]LineTotal, 0, len(cart))}
	for _, line := range cart {
		idx := model.FindProduct(products, line.ProductID)
		if idx < 0 {
			continue
		}
		p := products[idx]
		subtotal := p.Price * line.Quantity
		totals.Lines = append(totals.Lines, LineTotal{Product: p, Quantity: line.Quantity, Subtotal: subtotal})
		totals.Units += line.Quantity
		totals.Total += subtotal
	}
	return totals
}

// ClampToStock lowers every line to its product's current stock and drops lines left at zero.
// Lines whose product no longer exists are kept as they are. The input is not modified.
func ClampToStock(cart []model.CartLine, products []model.Product) []model.CartLine {
	out := make([]model.CartLine, 0, len(cart))
	for _, line := range cart {
		if idx := model.FindProduct(products, line.ProductID); idx >= 0 {
			line.Quantity = min(line.Quantity, products[idx].Stock)
			if line.Quantity < 1 {
				continue
			}
		}
		out = append(out, line)
	}
	return out
}

// CoerceQuantity turns a raw quantity control value into an integer >= 1.
// Leading digits are read and the rest ignored, so "5abc" and "2.9" give 5 and 2. Input without
// leading digits, or below 1, becomes 1. Values too large for an int32 saturate at math.MaxInt32
// and are later clamped to stock.
func CoerceQuantity(raw string) int {
	text := strings.TrimSpace(raw)
	negative := false
	if text != "" && (text[0] == '+' || text[0] == '-') {
		negative = text[0] == '-'
		text = text[1:]
	}

	end := 0
	for end < len(text) && text[end] >= '0' && text[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 1
	}

	n, err := strconv.Atoi(text[:end])
	if err != nil || n > math.MaxInt32 {
		return math.MaxInt32
	}
	return max(n, 1)
}

// QuantityUpdate is the outcome of CartService.UpdateQuantity
type QuantityUpdate struct {
	// Line is nil when clamping to an out-of-stock product removed the line
	Line      *model.CartLine `json:"line"`
	Requested int             `json:"requested"`
	// Clamped means the request exceeded stock and the quantity was lowered to what is available
	Clamped bool `json:"clamped"`
}

// CartService maintains the cart lines and keeps every quantity within product stock
type CartService struct {
	repo CartStore
	log  *zap.Logger
	mu   *sync.Mutex
}

func NewCartService(repo CartStore, log *zap.Logger) *CartService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartService{repo: repo, log: log, mu: &sync.Mutex{}}
}

// load reads the cart and the catalog, with the cart clamped to current stock
func (s *CartService) load(ctx context.Context) ([]model.CartLine, []model.Product, error) {
	cart, err := s.repo.Cart(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	return ClampToStock(cart, products), products, nil
}

// Lines returns the cart with every quantity within current stock
func (s *CartService) Lines(ctx context.Context) ([]model.CartLine, error) {
	cart, _, err := s.load(ctx)
	return cart, err
}

// View returns the cart priced against the current catalog
func (s *CartService) View(ctx context.Context) (Totals, error) {
	cart, products, err := s.load(ctx)
	if err != nil {
		return Totals{}, err
	}
	return ComputeTotals(cart, products), nil
}

// Count returns the number of units in the cart
func (s *CartService) Count(ctx context.Context) (int, error) {
	cart, _, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	units := 0
	for _, line := range cart {
		units += line.Quantity
	}
	return units, nil
}

// Add puts one more unit of the product in the cart. It returns the resulting line,
// or nil when the product does not exist. ErrInsufficientStock means nothing changed.
func (s *CartService) Add(ctx context.Context, productID int) (*model.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	pidx := model.FindProduct(products, productID)
	if pidx < 0 {
		s.log.Debug("Add to cart ignored, product not found", zap.Int("product_id", productID))
		prometheus.RecordCartOperation("add", "not_found")
		return nil, nil
	}
	product := products[pidx]

	lidx := model.FindLine(cart, productID)
	next := 1
	if lidx >= 0 {
		next = cart[lidx].Quantity + 1
	}
	if next > product.Stock {
		s.log.Info("Add to cart rejected, insufficient stock",
			zap.Int("product_id", productID),
			zap.Int("requested", next),
			zap.Int("stock", product.Stock))
		prometheus.RecordCartOperation("add", "insufficient_stock")
		return nil, ErrInsufficientStock
	}

	if lidx >= 0 {
		cart[lidx].Quantity = next
	} else {
		cart = append(cart, model.CartLine{ProductID: productID, Quantity: next})
		lidx = len(cart) - 1
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}

	s.log.Info("Product added to cart",
		zap.Int("product_id", productID),
		zap.Int("quantity", next))
	prometheus.RecordCartOperation("add", "ok")
	line := cart[lidx]
	return &line, nil
}

// UpdateQuantity sets a line's quantity. Requests below 1 count as 1. A request above stock is
// clamped to stock and flagged in the result instead of failing. A missing line or product is a
// no-op and returns nil.
func (s *CartService) UpdateQuantity(ctx context.Context, productID, requested int) (*QuantityUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	requested = max(requested, 1)

	cart, err := s.repo.Cart(ctx)
	if err != nil {
		return nil, err
	}
	lidx := model.FindLine(cart, productID)
	if lidx < 0 {
		prometheus.RecordCartOperation("update", "not_found")
		return nil, nil
	}

	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	pidx := model.FindProduct(products, productID)
	if pidx < 0 {
		prometheus.RecordCartOperation("update", "not_found")
		return nil, nil
	}
	stock := products[pidx].Stock

	result := &QuantityUpdate{Requested: requested}
	quantity := requested
	if quantity > stock {
		quantity = stock
		result.Clamped = true
	}

	if quantity < 1 {
		cart = append(cart[:lidx], cart[lidx+1:]...)
	} else {
		cart[lidx].Quantity = quantity
		line := cart[lidx]
		result.Line = &line
	}
	if err := s.repo.SaveCart(ctx, ClampToStock(cart, products)); err != nil {
		return nil, err
	}

	if result.Clamped {
		s.log.Info("Cart quantity clamped to stock",
			zap.Int("product_id", productID),
			zap.Int("requested", requested),
			zap.Int("stock", stock))
		prometheus.RecordCartOperation("update", "clamped")
	} else {
		prometheus.RecordCartOperation("update", "ok")
	}
	return result, nil
}

// Remove drops the product's line. The cart is written back even when there was no such line.
func (s *CartService) Remove(ctx context.Context, productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, _, err := s.load(ctx)
	if err != nil {
		return err
	}
	if idx := model.FindLine(cart, productID); idx >= 0 {
		cart = append(cart[:idx], cart[idx+1:]...)
		s.log.Info("Product removed from cart", zap.Int("product_id", productID))
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return err
	}
	prometheus.RecordCartOperation("remove", "ok")
	return nil
}
