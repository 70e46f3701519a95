package main

import (
	"context"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/updrift/updrift/cmd/updrift/container"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/cmd/updrift/routes"
	"github.com/updrift/updrift/common/bootstrap"
	"github.com/updrift/updrift/common/server"
)

func main() {
	ctx := context.Background()

	// Bootstrap common components (config, logger, DB, telemetry)
	components, err := bootstrap.Setup(ctx, "updrift",
		bootstrap.WithDBInitHook(repository.Migrate),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap updrift: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	// Initialize service container (all services created once)
	serviceContainer, err := container.NewContainer(ctx, components)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize service container: %v\n", err)
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e)
	registerRoutes(e, serviceContainer)

	// Start with graceful shutdown
	srv := server.New("updrift", components.Config.Service.Port, e, components.Logger)
	if err := srv.Start(); err != nil {
		components.Logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterStatusRoutes(e, serviceContainer)
	routes.RegisterAuthRoutes(e, serviceContainer)
	routes.RegisterReleaseRoutes(e, serviceContainer)
	routes.RegisterVersionRoutes(e, serviceContainer)
}
