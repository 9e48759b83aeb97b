package service

import (
	"context"
	"net/url"
	"storefront-service/internal/model"
	"storefront-service/prometheus"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// AssetPrefix is prepended to local image file names
	AssetPrefix = "assets/img/"

	placeholderBase = "https://placehold.co/600x400?text="
)

// ProductInput carries the admin form fields. Price and Stock are nil when the form value was
// missing or not a number. Format and Description are nil when the form did not send them.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Format      *string `json:"format"`
	Description *string `json:"description"`
	Price       *int    `json:"price" validate:"required,gte=0"`
	Stock       *int    `json:"stock" validate:"required,gte=0"`
	ImageAsset  string  `json:"imageAsset"`
	ImageURL    string  `json:"imageUrl"`
}

func (in ProductInput) normalized() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Format = trimmed(in.Format)
	in.Description = trimmed(in.Description)
	in.ImageAsset = strings.TrimSpace(in.ImageAsset)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	return in
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func (in ProductInput) hasImage() bool {
	return in.ImageAsset != "" || in.ImageURL != ""
}

// ResolveImage picks the product image: a local asset first, then an explicit URL,
// then a placeholder generated from the product name.
func ResolveImage(name, asset, imageURL string) string {
	if asset = strings.TrimSpace(asset); asset != "" {
		if strings.HasPrefix(asset, AssetPrefix) {
			return asset
		}
		return AssetPrefix + strings.TrimLeft(asset, "/")
	}
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		return imageURL
	}
	return PlaceholderImage(name)
}

// PlaceholderImage derives a deterministic placeholder URL from the product name
func PlaceholderImage(name string) string {
	return placeholderBase + url.QueryEscape(name)
}

// ProductDirectory is the admin CRUD over the catalog
type ProductDirectory struct {
	repo ProductStore
	log  *zap.Logger
	mu   *sync.Mutex
}

func NewProductDirectory(repo ProductStore, log *zap.Logger) *ProductDirectory {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductDirectory{repo: repo, log: log, mu: &sync.Mutex{}}
}

// List returns the products matching filter, in catalog order
func (d *ProductDirectory) List(ctx context.Context, filter string) ([]model.Product, error) {
	products, err := d.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(products, filter), nil
}

// Get returns the product or nil
func (d *ProductDirectory) Get(ctx context.Context, id int) (*model.Product, error) {
	products, err := d.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return nil, nil
	}
	p := products[idx]
	return &p, nil
}

// Create validates the input and appends a product with the next id.
// Ids come from a persisted sequence so a deleted id is never handed out again.
func (d *ProductDirectory) Create(ctx context.Context, in ProductInput) (*model.Product, error) {
	in = in.normalized()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	products, err := d.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := d.repo.ProductSeq(ctx)
	if err != nil {
		return nil, err
	}

	product := model.Product{
		ID:          max(seq, model.MaxProductID(products)) + 1,
		Name:        in.Name,
		Format:      valueOr(in.Format, ""),
		Description: valueOr(in.Description, ""),
		Price:       *in.Price,
		Stock:       *in.Stock,
		Image:       ResolveImage(in.Name, in.ImageAsset, in.ImageURL),
	}
	products = append(products, product)

	if err := d.repo.SaveProductsWithSeq(ctx, products, product.ID); err != nil {
		return nil, err
	}

	d.log.Info("Product created",
		zap.Int("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("price", product.Price),
		zap.Int("stock", product.Stock))
	prometheus.RecordProductOperation("create")
	prometheus.UpdateProductInventory(product.ID, product.Stock)
	return &product, nil
}

// Update overwrites the supplied fields, keeping the id. Format and description are kept when
// omitted, and the image is replaced only when an asset or URL is supplied. An unknown id is ignored and returns nil.
func (d *ProductDirectory) Update(ctx context.Context, id int, in ProductInput) (*model.Product, error) {
	in = in.normalized()
	if err := validateInput(in); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	products, err := d.repo.Products(ctx)
	if err != nil {
		return nil, err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		d.log.Debug("Product update ignored, not found", zap.Int("product_id", id))
		return nil, nil
	}

	p := &products[idx]
	oldPrice, oldStock := p.Price, p.Stock
	p.Name = in.Name
	p.Format = valueOr(in.Format, p.Format)
	p.Description = valueOr(in.Description, p.Description)
	p.Price = *in.Price
	p.Stock = *in.Stock
	if in.hasImage() {
		p.Image = ResolveImage(in.Name, in.ImageAsset, in.ImageURL)
	}

	if err := d.repo.SaveProducts(ctx, products); err != nil {
		return nil, err
	}

	d.log.Info("Product updated",
		zap.Int("product_id", id),
		zap.String("name", p.Name),
		zap.Int("old_price", oldPrice),
		zap.Int("new_price", p.Price),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", p.Stock))
	prometheus.RecordProductOperation("update")
	prometheus.UpdateProductInventory(p.ID, p.Stock)
	updated := *p
	return &updated, nil
}

// Delete removes the product if present
func (d *ProductDirectory) Delete(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	products, err := d.repo.Products(ctx)
	if err != nil {
		return err
	}
	idx := model.FindProduct(products, id)
	if idx < 0 {
		return nil
	}
	name := products[idx].Name
	products = append(products[:idx], products[idx+1:]...)

	if err := d.repo.SaveProducts(ctx, products); err != nil {
		return err
	}

	d.log.Info("Product deleted", zap.Int("product_id", id), zap.String("name", name))
	prometheus.RecordProductOperation("delete")
	prometheus.RemoveProductInventory(id)
	return nil
}
