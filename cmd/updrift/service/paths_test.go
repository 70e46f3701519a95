package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/updrift/updrift/cmd/updrift/models"
)

func TestDerivePath(t *testing.T) {
	assert.Equal(t, "msi/msi-v1.2.0.msi", DerivePath(models.TypeMSI, "1.2.0", "installer.msi"))
	assert.Equal(t, "vm/vm-v2.0.0.ova", DerivePath(models.TypeVM, "2.0.0", "appliance.ova"))
	// Extension comes from the uploaded file name, not the type
	assert.Equal(t, "msi/msi-v1.0.0.exe", DerivePath(models.TypeMSI, "1.0.0", "setup.exe"))
	// No extension on the original name yields a bare path
	assert.Equal(t, "vm/vm-v1.0.0", DerivePath(models.TypeVM, "1.0.0", "image"))
}

func TestPathResolver(t *testing.T) {
	r := PathResolver{LegacyPrefix: testLegacyPrefix}

	// Bare path wins when present
	path, ok := r.Resolve(&models.Release{
		GCSPath:     strptr("msi/msi-v1.0.0.msi"),
		DownloadURL: strptr(testLegacyPrefix + "msi/ignored.msi"),
	})
	assert.True(t, ok)
	assert.Equal(t, "msi/msi-v1.0.0.msi", path)

	// Legacy URL is stripped down to a path
	path, ok = r.Resolve(&models.Release{
		DownloadURL: strptr(testLegacyPrefix + "vm/vm-v3.0.0.ova"),
	})
	assert.True(t, ok)
	assert.Equal(t, "vm/vm-v3.0.0.ova", path)

	// URLs pointing at another bucket are not trusted
	_, ok = r.Resolve(&models.Release{
		DownloadURL: strptr("https://storage.googleapis.com/other/vm/vm-v3.0.0.ova"),
	})
	assert.False(t, ok)

	// Retired release resolves to nothing
	_, ok = r.Resolve(&models.Release{})
	assert.False(t, ok)

	// Empty path string counts as retired
	_, ok = r.Resolve(&models.Release{GCSPath: strptr("")})
	assert.False(t, ok)
}
