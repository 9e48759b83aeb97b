package handler

import (
	"encoding/json"
	"net/http"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AddItemRequest adds one unit of a product to the cart
type AddItemRequest struct {
	ProductID json.RawMessage `json:"productId"`
}

// UpdateItemRequest carries the raw quantity control value
type UpdateItemRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (h *Handler) cartResponse(c echo.Context, status int, body echo.Map) error {
	view, err := h.services.Cart.View(c.Request().Context())
	if err != nil {
		return respondError(c, logger.FromContext(c), err, "Failed to load cart")
	}
	if body == nil {
		body = echo.Map{}
	}
	body["cart"] = view
	return c.JSON(status, body)
}

// GetCart returns the cart lines priced against the catalog
func (h *Handler) GetCart(c echo.Context) error {
	return h.cartResponse(c, http.StatusOK, nil)
}

// AddCartItem handles the add-to-cart action
func (h *Handler) AddCartItem(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse the request body
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	// The product id may arrive as a number or a string
	productID := parseNumber(req.ProductID)
	if productID == nil {
		return respondError(c, log, &service.ValidationError{Field: "productId", Reason: "is required"}, "Invalid add to cart request")
	}

	// Add one unit, stock permitting
	line, err := h.services.Cart.Add(c.Request().Context(), *productID)
	if err != nil {
		return respondError(c, log, err, "Failed to add product to cart")
	}
	return h.cartResponse(c, http.StatusOK, echo.Map{"line": line})
}

// UpdateCartItem sets a line's quantity. A request above stock is clamped and answered with a warning.
func (h *Handler) UpdateCartItem(c echo.Context) error {
	log := logger.FromContext(c)

	// Get the product id from the path
	productID, err := paramID(c)
	if err != nil {
		return respondError(c, log, err, "Invalid cart item")
	}

	// Parse the request body
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	// Coerce the raw control value the way the quantity input does
	quantity := service.CoerceQuantity(rawText(req.Quantity))
	result, err := h.services.Cart.UpdateQuantity(c.Request().Context(), productID, quantity)
	if err != nil {
		return respondError(c, log, err, "Failed to update cart quantity")
	}

	// A clamped update succeeds with a warning
	body := echo.Map{"update": result}
	if result != nil && result.Clamped {
		body["warning"] = service.ErrInsufficientStock.Error()
	}
	return h.cartResponse(c, http.StatusOK, body)
}

// RemoveCartItem drops a line from the cart
func (h *Handler) RemoveCartItem(c echo.Context) error {
	log := logger.FromContext(c)

	// Get the product id from the path
	productID, err := paramID(c)
	if err != nil {
		return respondError(c, log, err, "Invalid cart item")
	}

	// Remove the line, a missing line is not an error
	if err := h.services.Cart.Remove(c.Request().Context(), productID); err != nil {
		return respondError(c, log, err, "Failed to remove cart item")
	}
	return h.cartResponse(c, http.StatusOK, nil)
}

// Checkout purchases the cart
func (h *Handler) Checkout(c echo.Context) error {
	log := logger.FromContext(c)

	// Decrement stock and empty the cart in one write
	receipt, err := h.services.Checkout.Checkout(c.Request().Context())
	if err != nil {
		return respondError(c, log, err, "Checkout failed")
	}

	log.Info("Checkout served", zap.Int("total", receipt.Total))
	return c.JSON(http.StatusOK, echo.Map{"receipt": receipt})
}
