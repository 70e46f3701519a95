package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/container"
	"github.com/updrift/updrift/cmd/updrift/handlers"
)

// RegisterStatusRoutes registers liveness and dependency-status routes
func RegisterStatusRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewStatusHandler(c.ReleaseRepo, c.ObjectStore, c.Components.Logger)

	e.GET("/health", h.Health)
	e.GET("/api/status", h.Status)
}
