package models

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseType partitions releases into independent version lines
type ReleaseType string

const (
	TypeMSI ReleaseType = "msi"
	TypeVM  ReleaseType = "vm"
)

// Valid reports whether the type is one of the known version lines
func (t ReleaseType) Valid() bool {
	return t == TypeMSI || t == TypeVM
}

// Release represents one uploaded artifact version.
// Maps to: release table
type Release struct {
	// Unique record ID assigned at creation
	ID uuid.UUID `db:"id" json:"id"`

	// Version line: 'msi' or 'vm'
	Type ReleaseType `db:"type" json:"type"`

	// Version string, unique per type at creation time (not store-enforced)
	Version string `db:"version" json:"version"`

	// Object storage path of the current blob; nil once retired
	GCSPath *string `db:"gcs_path" json:"gcs_path,omitempty"`

	// Legacy full download URL, present only on records created before
	// bare storage paths were introduced
	DownloadURL *string `db:"download_url" json:"download_url,omitempty"`

	// "sha256:" + hex digest of the uploaded bytes
	FileHash string `db:"file_hash" json:"file_hash"`

	// Size of the uploaded payload in bytes
	FileSize int64 `db:"file_size" json:"file_size"`

	// Free-text changelog lines
	ReleaseNotes []string `db:"release_notes" json:"release_notes"`

	// Set at record creation, never mutated
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReleaseSummary is the client-facing projection of a release.
// Storage paths are stripped; has_download says whether the artifact
// is still fetchable.
type ReleaseSummary struct {
	ID           uuid.UUID   `json:"id"`
	Type         ReleaseType `json:"type"`
	Version      string      `json:"version"`
	FileHash     string      `json:"file_hash"`
	FileSize     int64       `json:"file_size"`
	ReleaseNotes []string    `json:"release_notes"`
	CreatedAt    time.Time   `json:"created_at"`
	HasDownload  bool        `json:"has_download"`
}

// ChangelogEntry is the changelog projection of a release: no storage
// fields, no download flag.
type ChangelogEntry struct {
	Version      string    `json:"version"`
	ReleaseNotes []string  `json:"release_notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListReleasesResponse is the paginated list payload
type ListReleasesResponse struct {
	Releases []*ReleaseSummary `json:"releases"`
	Count    int               `json:"count"`
}

// ChangelogResponse is the changelog payload
type ChangelogResponse struct {
	Type      ReleaseType       `json:"type"`
	Changelog []*ChangelogEntry `json:"changelog"`
}
