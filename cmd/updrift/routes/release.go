package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/container"
	"github.com/updrift/updrift/cmd/updrift/handlers"
	"github.com/updrift/updrift/cmd/updrift/middleware"
)

// RegisterReleaseRoutes registers upload and download routes
func RegisterReleaseRoutes(e *echo.Echo, c *container.Container) {
	cfg := c.Components.Config
	h := handlers.NewReleaseHandler(c.UploadService, c.DownloadService, cfg.Upload.MaxBytes, c.Components.Logger)

	releases := e.Group("/api/releases")
	{
		// POST /api/releases - multipart upload, streams SSE progress; admin only
		releases.POST("", h.Upload, middleware.RequireAuth(c.AuthService))

		// GET /api/releases/download?type=msi|vm - proxy latest artifact bytes
		releases.GET("/download", h.Download)
	}
}
