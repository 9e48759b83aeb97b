package handler

import (
	"net/http"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SearchCatalog filters the catalog by ?q= and orders it by ?sort=
func (h *Handler) SearchCatalog(c echo.Context) error {
	log := logger.FromContext(c)

	// Read the search box and sort control
	query := c.QueryParam("q")
	mode := service.ParseSortMode(c.QueryParam("sort"))

	// Run the query against the current catalog
	products, err := h.services.Catalog.Search(c.Request().Context(), query, mode)
	if err != nil {
		return respondError(c, log, err, "Failed to search catalog")
	}

	log.Debug("Catalog search served",
		zap.String("query", query),
		zap.String("sort", string(mode)),
		zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, echo.Map{
		"products": products,
		"count":    len(products),
	})
}
