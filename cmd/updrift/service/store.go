package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/updrift/updrift/cmd/updrift/models"
)

// ReleaseStore is the metadata-store surface the release services need.
// Implemented by repository.ReleaseRepository.
type ReleaseStore interface {
	Create(ctx context.Context, release *models.Release) error
	VersionExists(ctx context.Context, releaseType models.ReleaseType, version string) (bool, error)
	Latest(ctx context.Context, releaseType models.ReleaseType) (*models.Release, error)
	List(ctx context.Context, releaseType models.ReleaseType, limit, offset int) ([]*models.Release, error)
	ListByType(ctx context.Context, releaseType models.ReleaseType) ([]*models.Release, error)
	ListOthers(ctx context.Context, releaseType models.ReleaseType, version string) ([]*models.Release, error)
	ClearPath(ctx context.Context, id uuid.UUID) error
}

// AdminStore is the metadata-store surface the auth service needs.
// Implemented by repository.AdminRepository.
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Any(ctx context.Context) (bool, error)
}

// Cache is the key/value surface used for the latest-version cache.
// Implemented by the common redis client. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithExpiry(ctx context.Context, key, value string, expiry time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
