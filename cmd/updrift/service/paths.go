package service

import (
	"fmt"
	"path"
	"strings"

	"github.com/updrift/updrift/cmd/updrift/models"
)

// DerivePath returns the canonical storage path for an upload:
// {type}/{type}-v{version}{ext}. The path is stable per (type, version)
// and is overwritten at the storage layer when reused.
func DerivePath(releaseType models.ReleaseType, version, fileName string) string {
	return fmt.Sprintf("%s/%s-v%s%s", releaseType, releaseType, version, path.Ext(fileName))
}

// PathResolver recovers an object storage path from a release record.
type PathResolver struct {
	// LegacyPrefix is the canonical storage-bucket URL prefix. Records
	// created before bare paths were stored carry a full download URL;
	// stripping the prefix recovers the path.
	LegacyPrefix string
}

// Resolve prefers gcs_path, then falls back to the legacy URL.
// Returns false when neither yields a path: the release was never
// uploaded under this scheme, or it has been retired.
func (r PathResolver) Resolve(release *models.Release) (string, bool) {
	if release.GCSPath != nil && *release.GCSPath != "" {
		return *release.GCSPath, true
	}

	if release.DownloadURL != nil && r.LegacyPrefix != "" {
		if url := *release.DownloadURL; strings.HasPrefix(url, r.LegacyPrefix) {
			return url[len(r.LegacyPrefix):], true
		}
	}

	return "", false
}
