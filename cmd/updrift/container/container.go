package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/cmd/updrift/service"
	"github.com/updrift/updrift/common/bootstrap"
	"github.com/updrift/updrift/common/objstore"
	"github.com/updrift/updrift/common/ratelimit"
	rediscommon "github.com/updrift/updrift/common/redis"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components  *bootstrap.Components
	Redis       *rediscommon.Client
	RedisRaw    *redis.Client
	ObjectStore objstore.Store
	RateLimiter *ratelimit.RateLimiter

	// Repositories
	ReleaseRepo *repository.ReleaseRepository
	AdminRepo   *repository.AdminRepository

	// Services
	AuthService     *service.AuthService
	UploadService   *service.UploadService
	QueryService    *service.QueryService
	DownloadService *service.DownloadService
}

// NewContainer initializes all services and repositories once
func NewContainer(ctx context.Context, components *bootstrap.Components) (*Container, error) {
	cfg := components.Config

	// Create Redis client (raw)
	redisRaw := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Wrap with common redis client for instrumentation
	redisClient := rediscommon.NewClient(redisRaw, components.Logger)

	// Object store: GCS when a bucket is configured, in-memory otherwise
	var objects objstore.Store
	if cfg.Storage.Bucket != "" {
		gcs, err := objstore.NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile, components.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create object store: %w", err)
		}
		objects = gcs
	} else {
		components.Logger.Warn("GCS_BUCKET_NAME not set, using in-memory object store")
		objects = objstore.NewMemoryStore()
	}

	resolver := service.PathResolver{LegacyPrefix: cfg.Storage.LegacyURLPrefix}

	// Initialize repositories
	releaseRepo := repository.NewReleaseRepository(components.DB)
	adminRepo := repository.NewAdminRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	authService := service.NewAuthService(adminRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, components.Logger)
	uploadService := service.NewUploadService(releaseRepo, objects, redisClient, components.Logger)
	queryService := service.NewQueryService(releaseRepo, redisClient, resolver, components.Logger)
	downloadService := service.NewDownloadService(releaseRepo, objects, resolver, components.Logger)

	return &Container{
		Components:      components,
		Redis:           redisClient,
		RedisRaw:        redisRaw,
		ObjectStore:     objects,
		RateLimiter:     ratelimit.NewRateLimiter(redisRaw, components.Logger),
		ReleaseRepo:     releaseRepo,
		AdminRepo:       adminRepo,
		AuthService:     authService,
		UploadService:   uploadService,
		QueryService:    queryService,
		DownloadService: downloadService,
	}, nil
}
