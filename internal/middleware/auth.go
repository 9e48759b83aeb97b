package middleware

import (
	"net/http"
	"storefront-service/internal/model"
	"storefront-service/pkg/jwtutil"
	"storefront-service/pkg/logger"
	"storefront-service/prometheus"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const sessionKey = "session"

// JWTAuthMiddleware validates the bearer token and stores the session it carries on the context
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid authorization header format")
				prometheus.RecordAuthError("invalid_header")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate the token
			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Store the session snapshot in the context for later use
			c.Set(sessionKey, claims.Session())
			log.Debug("JWT token validated successfully",
				zap.String("email", claims.Email),
				zap.String("role", string(claims.Role)))

			// Token is valid, proceed with the request
			return next(c)
		}
	}
}

// RequireAdmin rejects sessions without the admin role. It runs after JWTAuthMiddleware.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session := SessionFromContext(c)
		if !session.IsAdmin() {
			logger.FromContext(c).Warn("Admin route denied")
			prometheus.RecordAuthError("forbidden")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		}
		return next(c)
	}
}

// SessionFromContext returns the session set by JWTAuthMiddleware, or nil
func SessionFromContext(c echo.Context) *model.Session {
	session, _ := c.Get(sessionKey).(*model.Session)
	return session
}
