package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/common/logger"
)

func testLogger() *logger.Logger {
	return logger.New("error", "text")
}

// mockReleaseStore implements ReleaseStore in memory
type mockReleaseStore struct {
	releases  []*models.Release
	createErr error
	clearErr  error
	clock     time.Time
}

func newMockReleaseStore() *mockReleaseStore {
	return &mockReleaseStore{clock: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

// add seeds a release with a deterministic, strictly increasing timestamp
func (m *mockReleaseStore) add(r *models.Release) *models.Release {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	m.clock = m.clock.Add(time.Minute)
	r.CreatedAt = m.clock
	m.releases = append(m.releases, r)
	return r
}

func (m *mockReleaseStore) Create(ctx context.Context, release *models.Release) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.createErr != nil {
		return m.createErr
	}
	release.ID = uuid.New()
	if release.ReleaseNotes == nil {
		release.ReleaseNotes = []string{}
	}
	m.add(release)
	return nil
}

func (m *mockReleaseStore) VersionExists(ctx context.Context, releaseType models.ReleaseType, version string) (bool, error) {
	for _, r := range m.releases {
		if r.Type == releaseType && r.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockReleaseStore) Latest(ctx context.Context, releaseType models.ReleaseType) (*models.Release, error) {
	var latest *models.Release
	for _, r := range m.releases {
		if r.Type != releaseType {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (m *mockReleaseStore) List(ctx context.Context, releaseType models.ReleaseType, limit, offset int) ([]*models.Release, error) {
	var out []*models.Release
	for _, r := range m.releases {
		if releaseType != "" && r.Type != releaseType {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockReleaseStore) ListByType(ctx context.Context, releaseType models.ReleaseType) ([]*models.Release, error) {
	var out []*models.Release
	for _, r := range m.releases {
		if r.Type == releaseType {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockReleaseStore) ListOthers(ctx context.Context, releaseType models.ReleaseType, version string) ([]*models.Release, error) {
	var out []*models.Release
	for _, r := range m.releases {
		if r.Type == releaseType && r.Version != version {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReleaseStore) ClearPath(ctx context.Context, id uuid.UUID) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	for _, r := range m.releases {
		if r.ID == id {
			r.GCSPath = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockReleaseStore) find(releaseType models.ReleaseType, version string) *models.Release {
	for _, r := range m.releases {
		if r.Type == releaseType && r.Version == version {
			return r
		}
	}
	return nil
}

// mockAdminStore implements AdminStore in memory
type mockAdminStore struct {
	admins []*models.Admin
}

func (m *mockAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = uuid.New()
	admin.CreatedAt = time.Now().UTC()
	m.admins = append(m.admins, admin)
	return nil
}

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range m.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAdminStore) Any(ctx context.Context) (bool, error) {
	return len(m.admins) > 0, nil
}

// mockCache implements Cache in memory and records invalidations
type mockCache struct {
	values  map[string]string
	deleted []string
	getErr  error
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{values: make(map[string]string)}
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (m *mockCache) SetWithExpiry(ctx context.Context, key, value string, expiry time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
		m.deleted = append(m.deleted, k)
	}
	return nil
}

func strptr(s string) *string { return &s }
