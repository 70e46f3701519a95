package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/common/logger"
)

func testLogger() *logger.Logger {
	return logger.New("error", "text")
}

// fakeReleaseStore implements service.ReleaseStore in memory
type fakeReleaseStore struct {
	releases []*models.Release
	clock    time.Time
}

func newFakeReleaseStore() *fakeReleaseStore {
	return &fakeReleaseStore{clock: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeReleaseStore) add(r *models.Release) *models.Release {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	f.clock = f.clock.Add(time.Minute)
	r.CreatedAt = f.clock
	f.releases = append(f.releases, r)
	return r
}

func (f *fakeReleaseStore) Create(ctx context.Context, release *models.Release) error {
	release.ID = uuid.New()
	if release.ReleaseNotes == nil {
		release.ReleaseNotes = []string{}
	}
	f.add(release)
	return nil
}

func (f *fakeReleaseStore) VersionExists(ctx context.Context, releaseType models.ReleaseType, version string) (bool, error) {
	for _, r := range f.releases {
		if r.Type == releaseType && r.Version == version {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReleaseStore) Latest(ctx context.Context, releaseType models.ReleaseType) (*models.Release, error) {
	var latest *models.Release
	for _, r := range f.releases {
		if r.Type == releaseType && (latest == nil || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (f *fakeReleaseStore) List(ctx context.Context, releaseType models.ReleaseType, limit, offset int) ([]*models.Release, error) {
	var out []*models.Release
	for _, r := range f.releases {
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

func (f *fakeReleaseStore) ListByType(ctx context.Context, releaseType models.ReleaseType) ([]*models.Release, error) {
	return f.List(ctx, releaseType, len(f.releases), 0)
}

func (f *fakeReleaseStore) ListOthers(ctx context.Context, releaseType models.ReleaseType, version string) ([]*models.Release, error) {
	var out []*models.Release
	for _, r := range f.releases {
		if r.Type == releaseType && r.Version != version {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReleaseStore) ClearPath(ctx context.Context, id uuid.UUID) error {
	for _, r := range f.releases {
		if r.ID == id {
			r.GCSPath = nil
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeAdminStore implements service.AdminStore in memory
type fakeAdminStore struct {
	admins []*models.Admin
}

func (f *fakeAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	admin.ID = uuid.New()
	admin.CreatedAt = time.Now().UTC()
	f.admins = append(f.admins, admin)
	return nil
}

func (f *fakeAdminStore) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdminStore) Any(ctx context.Context) (bool, error) {
	return len(f.admins) > 0, nil
}

func strptr(s string) *string { return &s }

// newMultipartRequest builds a multipart upload request with one file part
func newMultipartRequest(t *testing.T, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/releases", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func newContext(e *echo.Echo, req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
