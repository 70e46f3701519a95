package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/cmd/updrift/service"
	"github.com/updrift/updrift/common/bootstrap"
)

// setup-admin creates the sole administrator account from the command
// line, for deployments where the HTTP setup endpoint is disabled.
func main() {
	email := flag.String("email", "", "administrator email (required)")
	password := flag.String("password", "", "administrator password (required)")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: setup-admin -email <email> -password <password>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx := context.Background()

	components, err := bootstrap.Setup(ctx, "setup-admin",
		bootstrap.WithoutTelemetry(),
		bootstrap.WithDBInitHook(repository.Migrate),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap setup-admin: %v\n", err)
		os.Exit(1)
	}
	defer components.Shutdown(ctx)

	adminRepo := repository.NewAdminRepository(components.DB)
	auth := service.NewAuthService(adminRepo, components.Config.Auth.JWTSecret, components.Config.Auth.TokenTTL, components.Logger)

	admin, err := auth.Setup(ctx, *email, *password)
	if err != nil {
		if errors.Is(err, service.ErrAdminExists) {
			fmt.Fprintln(os.Stderr, "An administrator already exists; refusing to create another")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Failed to create administrator: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Administrator created: %s (%s)\n", admin.Email, admin.ID)
}
