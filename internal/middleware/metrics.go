package middleware

import (
	"storefront-service/prometheus"
	"time"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware adds prometheus metrics to track HTTP requests
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Start timer for request duration
		start := time.Now()

		// Process request
		err := next(c)

		// Errors returned to echo carry the final status code
		status := c.Response().Status
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
		}
		// Record metrics
		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), status, time.Since(start))

		return err
	}
}
