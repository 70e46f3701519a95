package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/common/db"
)

// ErrNotFound is returned when no matching record exists
var ErrNotFound = errors.New("record not found")

// ReleaseRepository handles database operations for releases
type ReleaseRepository struct {
	db *db.DB
}

// NewReleaseRepository creates a new release repository
func NewReleaseRepository(db *db.DB) *ReleaseRepository {
	return &ReleaseRepository{db: db}
}

// Create inserts a new release record, assigning its ID and creation time
func (r *ReleaseRepository) Create(ctx context.Context, release *models.Release) error {
	if release.ID == uuid.Nil {
		release.ID = uuid.New()
	}
	if release.CreatedAt.IsZero() {
		release.CreatedAt = time.Now().UTC()
	}
	if release.ReleaseNotes == nil {
		release.ReleaseNotes = []string{}
	}

	query := `
		INSERT INTO release (
			id, type, version, gcs_path, download_url,
			file_hash, file_size, release_notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.Exec(ctx, query,
		release.ID,
		release.Type,
		release.Version,
		release.GCSPath,
		release.DownloadURL,
		release.FileHash,
		release.FileSize,
		release.ReleaseNotes,
		release.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create release: %w", err)
	}

	return nil
}

// VersionExists reports whether a record with the same (type, version)
// already exists. Not transactional with a following insert.
func (r *ReleaseRepository) VersionExists(ctx context.Context, releaseType models.ReleaseType, version string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM release WHERE type = $1 AND version = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, releaseType, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check version existence: %w", err)
	}

	return exists, nil
}

// Latest returns the most recent record for a type
func (r *ReleaseRepository) Latest(ctx context.Context, releaseType models.ReleaseType) (*models.Release, error) {
	query := `
		SELECT
			id, type, version, gcs_path, download_url,
			file_hash, file_size, release_notes, created_at
		FROM release
		WHERE type = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	release := &models.Release{}
	err := r.db.QueryRow(ctx, query, releaseType).Scan(
		&release.ID,
		&release.Type,
		&release.Version,
		&release.GCSPath,
		&release.DownloadURL,
		&release.FileHash,
		&release.FileSize,
		&release.ReleaseNotes,
		&release.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}

	return release, nil
}

// List returns records ordered by created_at descending, optionally
// filtered by type
func (r *ReleaseRepository) List(ctx context.Context, releaseType models.ReleaseType, limit, offset int) ([]*models.Release, error) {
	var (
		query string
		args  []interface{}
	)

	if releaseType != "" {
		query = `
			SELECT
				id, type, version, gcs_path, download_url,
				file_hash, file_size, release_notes, created_at
			FROM release
			WHERE type = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		args = []interface{}{releaseType, limit, offset}
	} else {
		query = `
			SELECT
				id, type, version, gcs_path, download_url,
				file_hash, file_size, release_notes, created_at
			FROM release
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		args = []interface{}{limit, offset}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	defer rows.Close()

	return scanReleases(rows)
}

// ListByType returns all records for a type, newest first
func (r *ReleaseRepository) ListByType(ctx context.Context, releaseType models.ReleaseType) ([]*models.Release, error) {
	query := `
		SELECT
			id, type, version, gcs_path, download_url,
			file_hash, file_size, release_notes, created_at
		FROM release
		WHERE type = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, releaseType)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases by type: %w", err)
	}
	defer rows.Close()

	return scanReleases(rows)
}

// ListOthers returns all records of a type except the given version.
// Used by the retirement pass after a new upload completes.
func (r *ReleaseRepository) ListOthers(ctx context.Context, releaseType models.ReleaseType, version string) ([]*models.Release, error) {
	query := `
		SELECT
			id, type, version, gcs_path, download_url,
			file_hash, file_size, release_notes, created_at
		FROM release
		WHERE type = $1 AND version != $2
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, releaseType, version)
	if err != nil {
		return nil, fmt.Errorf("failed to list superseded releases: %w", err)
	}
	defer rows.Close()

	return scanReleases(rows)
}

// ClearPath sets gcs_path to NULL on a retired record. All other
// fields are left untouched.
func (r *ReleaseRepository) ClearPath(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE release SET gcs_path = NULL WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to clear release path: %w", err)
	}

	return nil
}

// Ping runs a cheap query against the release table.
// Used by the status endpoint to verify store reachability.
func (r *ReleaseRepository) Ping(ctx context.Context) error {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM (SELECT 1 FROM release LIMIT 1) t`).Scan(&count); err != nil {
		return fmt.Errorf("release table unreachable: %w", err)
	}
	return nil
}

func scanReleases(rows pgx.Rows) ([]*models.Release, error) {
	var releases []*models.Release
	for rows.Next() {
		release := &models.Release{}
		err := rows.Scan(
			&release.ID,
			&release.Type,
			&release.Version,
			&release.GCSPath,
			&release.DownloadURL,
			&release.FileHash,
			&release.FileSize,
			&release.ReleaseNotes,
			&release.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan release: %w", err)
		}
		releases = append(releases, release)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating releases: %w", err)
	}

	return releases, nil
}
