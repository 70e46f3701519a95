package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/container"
	"github.com/updrift/updrift/cmd/updrift/handlers"
)

// RegisterVersionRoutes registers public release-metadata query routes
func RegisterVersionRoutes(e *echo.Echo, c *container.Container) {
	h := handlers.NewVersionHandler(c.QueryService, c.Components.Logger)

	versions := e.Group("/api/versions")
	{
		versions.GET("/latest", h.Latest)       // GET /api/versions/latest?type=msi|vm
		versions.GET("", h.List)                // GET /api/versions?type=&limit=&offset=
		versions.GET("/changelog", h.Changelog) // GET /api/versions/changelog?type=msi|vm
	}
}
