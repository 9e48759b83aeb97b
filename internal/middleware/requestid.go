package middleware

import (
	"storefront-service/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestIDMiddleware tags each request with an id, keeping one supplied by the caller
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Reuse the caller's request ID or generate a new one
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(logger.RequestIDKey, requestID)
		}
		// Echo it back to the caller
		c.Response().Header().Set(logger.RequestIDKey, requestID)

		// Add the request ID and a request-scoped logger to the context
		c.Set("request_id", requestID)
		logger.SetContext(c, logger.GetLogger().With(zap.String("request_id", requestID)))

		// Pass to the next middleware/handler
		return next(c)
	}
}
