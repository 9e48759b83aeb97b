package handler

import (
	"net/http"
	"storefront-service/internal/service"
	"storefront-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login opens a session and answers it with a signed token
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse the request body
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	// Check the credentials and store the session
	session, err := h.services.Accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, log, err, "Login failed")
	}

	// Sign a token carrying the session snapshot
	token, err := h.jwt.GenerateToken(*session)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate token"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"session": session,
		"token":   token,
	})
}

// RegisterUser creates a user account
func (h *Handler) RegisterUser(c echo.Context) error {
	log := logger.FromContext(c)

	// Parse the request body
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		log.Warn("Invalid registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	// Validate and append the account
	user, err := h.services.Accounts.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, log, err, "Registration failed")
	}

	// Never answer the password
	return c.JSON(http.StatusCreated, echo.Map{
		"user": echo.Map{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// Logout clears the session
func (h *Handler) Logout(c echo.Context) error {
	if err := h.services.Accounts.Logout(c.Request().Context()); err != nil {
		return respondError(c, logger.FromContext(c), err, "Logout failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"session": nil})
}

// CurrentSession returns the active session, null when logged out
func (h *Handler) CurrentSession(c echo.Context) error {
	session, err := h.services.Accounts.Current(c.Request().Context())
	if err != nil {
		return respondError(c, logger.FromContext(c), err, "Failed to load session")
	}
	return c.JSON(http.StatusOK, echo.Map{"session": session})
}
