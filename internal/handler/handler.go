package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"storefront-service/internal/middleware"
	"storefront-service/internal/service"
	"storefront-service/pkg/jwtutil"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handler exposes the storefront services over HTTP
type Handler struct {
	services *service.Services
	jwt      *jwtutil.JWTUtil
}

// New creates the HTTP handler set
func New(services *service.Services, jwtUtil *jwtutil.JWTUtil) *Handler {
	return &Handler{services: services, jwt: jwtUtil}
}

// Register mounts every storefront route on e
func (h *Handler) Register(e *echo.Echo) {
	// Public routes - no authentication required
	e.GET("/health", HealthCheck)

	// Storefront routes
	api := e.Group("/api")
	api.GET("/catalog", h.SearchCatalog)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.PUT("/cart/items/:id", h.UpdateCartItem)
	api.DELETE("/cart/items/:id", h.RemoveCartItem)
	api.POST("/checkout", h.Checkout)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.RegisterUser)
	auth.POST("/logout", h.Logout)
	auth.GET("/session", h.CurrentSession)

	// Admin routes - require a token with the admin role
	admin := api.Group("/admin", middleware.JWTAuthMiddleware(h.jwt), middleware.RequireAdmin)
	admin.GET("/products", h.ListProducts)
	admin.POST("/products", h.CreateProduct)
	admin.GET("/products/:id", h.GetProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
}

// respondError maps service errors to status codes. Anything unrecognized is a storage failure.
func respondError(c echo.Context, log *zap.Logger, err error, msg string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn(msg, zap.String("field", verr.Field), zap.String("reason", verr.Reason))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrEmailExists):
		log.Info(msg, zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Info(msg, zap.Error(err))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	default:
		log.Error(msg, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
}

func paramID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &service.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// rawText returns a JSON scalar as the text a form control would hold
func rawText(raw json.RawMessage) string {
	// Strings are unquoted, numbers and other literals keep their text
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(raw))
	if text == "null" {
		return ""
	}
	return text
}

// parseNumber reads a numeric JSON value or numeric string. Missing or non-numeric input yields nil.
func parseNumber(raw json.RawMessage) *int {
	text := strings.TrimSpace(rawText(raw))
	if text == "" {
		return nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		return &n
	}
	// Fractions are truncated toward zero
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	n := int(f)
	return &n
}
