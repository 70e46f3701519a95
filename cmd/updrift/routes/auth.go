package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/container"
	"github.com/updrift/updrift/cmd/updrift/handlers"
	"github.com/updrift/updrift/cmd/updrift/middleware"
)

// RegisterAuthRoutes registers admin authentication routes
func RegisterAuthRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewAuthHandler(c.AuthService, c.Components.Logger)
	cfg := c.Components.Config

	auth := e.Group("/api/auth")
	{
		// POST /api/auth/login - rate limited per client IP
		auth.POST("/login", h.Login, middleware.LoginRateLimit(c.RateLimiter, cfg.Auth.LoginRateLimit))

		// POST /api/auth/setup - first-admin bootstrap, optionally gated by API key
		if cfg.Auth.AdminAPIKey != "" {
			auth.POST("/setup", h.Setup, middleware.RequireAPIKey(cfg.Auth.AdminAPIKey))
		} else {
			auth.POST("/setup", h.Setup)
		}
	}
}
