package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/service"
	"github.com/updrift/updrift/common/logger"
)

// AuthHandler handles admin setup and login
type AuthHandler struct {
	auth *service.AuthService
	log  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth: auth,
		log:  log,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Setup creates the sole administrator
// POST /api/auth/setup
func (h *AuthHandler) Setup(c echo.Context) error {
	req := &credentialsRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Email and password are required",
		})
	}

	if _, err := h.auth.Setup(c.Request().Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"error": "Admin already exists",
			})
		}
		h.log.Error("admin setup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Admin created successfully",
	})
}

// Login verifies credentials and issues a session token
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	req := &credentialsRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Email and password are required",
		})
	}

	token, admin, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error": "Invalid credentials",
			})
		}
		h.log.Error("login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token": token,
		"email": admin.Email,
	})
}
