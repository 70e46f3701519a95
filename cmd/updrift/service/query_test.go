package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/updrift/updrift/cmd/updrift/models"
)

const testLegacyPrefix = "https://storage.googleapis.com/test-bucket/"

func queryFixture(cache Cache) (*QueryService, *mockReleaseStore) {
	store := newMockReleaseStore()
	svc := NewQueryService(store, cache, PathResolver{LegacyPrefix: testLegacyPrefix}, testLogger())
	return svc, store
}

func TestLatest_ReturnsNewestOfType(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0"})
	store.add(&models.Release{Type: models.TypeVM, Version: "5.0.0", GCSPath: strptr("vm/vm-v5.0.0.ova")})
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.1.0", GCSPath: strptr("msi/msi-v1.1.0.msi")})

	latest, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.Equal(t, "1.1.0", latest.Version)
	assert.Equal(t, models.TypeMSI, latest.Type)
}

func TestLatest_NoReleases(t *testing.T) {
	svc, _ := queryFixture(nil)

	_, err := svc.Latest(context.Background(), models.TypeVM)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatest_StripsStorageFields(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{
		Type:         models.TypeMSI,
		Version:      "1.0.0",
		GCSPath:      strptr("msi/msi-v1.0.0.msi"),
		FileHash:     "sha256:abc",
		FileSize:     1234,
		ReleaseNotes: []string{"first"},
	})

	latest, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)

	// The client payload must not leak storage locations
	data, err := json.Marshal(latest)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "gcs_path")
	assert.NotContains(t, string(data), "msi-v1.0.0.msi")
	assert.Contains(t, string(data), `"has_download":true`)
	assert.Equal(t, "sha256:abc", latest.FileHash)
	assert.Equal(t, int64(1234), latest.FileSize)
}

func TestLatest_HasDownloadFalseWhenRetired(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0"})

	latest, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.False(t, latest.HasDownload)
}

func TestLatest_CachesSummary(t *testing.T) {
	cache := newMockCache()
	svc, store := queryFixture(cache)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0", GCSPath: strptr("msi/msi-v1.0.0.msi")})

	first, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.Contains(t, cache.values, "latest:msi")

	// A newer release lands without going through the cache invalidation
	store.add(&models.Release{Type: models.TypeMSI, Version: "2.0.0", GCSPath: strptr("msi/msi-v2.0.0.msi")})

	// Cached summary is served until it expires or is invalidated
	second, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.Equal(t, first.Version, second.Version)

	// After invalidation the newer release is visible
	require.NoError(t, cache.Delete(context.Background(), "latest:msi"))
	third, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", third.Version)
}

func TestLatest_CacheErrorsFallThroughToStore(t *testing.T) {
	cache := newMockCache()
	cache.getErr = assert.AnError
	cache.setErr = assert.AnError
	svc, store := queryFixture(cache)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0"})

	latest, err := svc.Latest(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", latest.Version)
}

func TestList_NewestFirstAcrossTypes(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0"})
	store.add(&models.Release{Type: models.TypeVM, Version: "2.0.0"})
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.1.0"})

	all, err := svc.List(context.Background(), "", 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1.1.0", all[0].Version)
	assert.Equal(t, "2.0.0", all[1].Version)
	assert.Equal(t, "1.0.0", all[2].Version)

	msi, err := svc.List(context.Background(), models.TypeMSI, 0, 0)
	require.NoError(t, err)
	require.Len(t, msi, 2)
	assert.Equal(t, "1.1.0", msi[0].Version)
}

func TestList_LimitClamping(t *testing.T) {
	svc, store := queryFixture(nil)
	for i := 0; i < 60; i++ {
		store.add(&models.Release{Type: models.TypeMSI, Version: fmt.Sprintf("1.0.%d", i)})
	}

	def, err := svc.List(context.Background(), models.TypeMSI, 0, 0)
	require.NoError(t, err)
	assert.Len(t, def, 10)

	capped, err := svc.List(context.Background(), models.TypeMSI, 200, 0)
	require.NoError(t, err)
	assert.Len(t, capped, 50)

	paged, err := svc.List(context.Background(), models.TypeMSI, 50, 55)
	require.NoError(t, err)
	assert.Len(t, paged, 5)
}

func TestChangelog_ProjectsNotesNewestFirst(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0", ReleaseNotes: []string{"initial"}})
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.1.0", ReleaseNotes: []string{"fix a", "fix b"}})
	store.add(&models.Release{Type: models.TypeVM, Version: "9.0.0", ReleaseNotes: []string{"other line"}})

	entries, err := svc.Changelog(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1.1.0", entries[0].Version)
	assert.Equal(t, []string{"fix a", "fix b"}, entries[0].ReleaseNotes)
	assert.Equal(t, "1.0.0", entries[1].Version)

	// Changelog entries expose no storage or hash fields
	data, err := json.Marshal(entries[0])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "file_hash")
	assert.NotContains(t, string(data), "gcs_path")
}

func TestChangelog_NilNotesBecomeEmptyList(t *testing.T) {
	svc, store := queryFixture(nil)
	store.add(&models.Release{Type: models.TypeMSI, Version: "1.0.0"})

	entries, err := svc.Changelog(context.Background(), models.TypeMSI)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].ReleaseNotes)
	assert.Empty(t, entries[0].ReleaseNotes)
}
