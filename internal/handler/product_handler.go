package handler

import (
	"encoding/json"
	"net/http"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest is the admin product form. Price and stock may arrive as numbers or strings.
type ProductRequest struct {
	Name        string          `json:"name"`
	Format      *string         `json:"format"`
	Description *string         `json:"description"`
	Price       json.RawMessage `json:"price"`
	Stock       json.RawMessage `json:"stock"`
	ImageAsset  string          `json:"imageAsset"`
	ImageURL    string          `json:"imageUrl"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Format:      r.Format,
		Description: r.Description,
		Price:       parseNumber(r.Price),
		Stock:       parseNumber(r.Stock),
		ImageAsset:  r.ImageAsset,
		ImageURL:    r.ImageURL,
	}
}

// ListProducts returns the catalog filtered by ?q=
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)

	// Filter by the admin search box
	products, err := h.services.Products.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	// Get the product id from the path
	id, err := paramID(c)
	if err != nil {
		return respondError(c, log, err, "Invalid product id")
	}

	// Look up the product
	product, err := h.services.Products.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, log, err, "Failed to retrieve product")
	}
	if product == nil {
		log.Info("Product not found", zap.Int("product_id", id))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles creating a new product
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse the request body
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	// Validate, assign the next id and append
	product, err := h.services.Products.Create(c.Request().Context(), req.input())
	if err != nil {
		return respondError(c, log, err, "Failed to create product")
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites a product. An unknown id leaves the catalog unchanged and answers a null product.
func (h *Handler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	// Get the product id from the path
	id, err := paramID(c)
	if err != nil {
		return respondError(c, log, err, "Invalid product id")
	}

	// Parse the request body
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	// Overwrite the supplied fields
	product, err := h.services.Products.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return respondError(c, log, err, "Failed to update product")
	}
	return c.JSON(http.StatusOK, echo.Map{"product": product})
}

// DeleteProduct removes a product. Deleting a missing product succeeds.
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	// Get the product id from the path
	id, err := paramID(c)
	if err != nil {
		return respondError(c, log, err, "Invalid product id")
	}

	// Delete is idempotent
	if err := h.services.Products.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, log, err, "Failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
