package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/updrift/updrift/common/db"
)

// Schema for the metadata store. Applied at startup via the bootstrap
// DB init hook.
//
// There is intentionally no unique constraint on (type, version): the
// duplicate-version guard is a read-then-decide check in the upload
// pipeline, and concurrent uploads of the same version may both land.
const schema = `
CREATE TABLE IF NOT EXISTS release (
	id            UUID PRIMARY KEY,
	type          TEXT NOT NULL,
	version       TEXT NOT NULL,
	gcs_path      TEXT,
	download_url  TEXT,
	file_hash     TEXT NOT NULL,
	file_size     BIGINT NOT NULL,
	release_notes JSONB NOT NULL DEFAULT '[]',
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS release_type_created_at_idx
	ON release (type, created_at DESC);

CREATE TABLE IF NOT EXISTS admin (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);
`

// Migrate applies the schema
func Migrate(database *db.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := database.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	return nil
}
