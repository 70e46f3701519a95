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

// AdminRepository handles database operations for the administrator record
type AdminRepository struct {
	db *db.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *db.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts the administrator record, assigning its ID and creation time
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO admin (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// GetByEmail looks up the administrator by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, email, password_hash, created_at
		FROM admin
		WHERE email = $1
		LIMIT 1
	`

	admin := &models.Admin{}
	err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// Any reports whether an administrator record exists.
// Queried on every setup attempt so the single-admin state survives
// restarts instead of living in process memory.
func (r *AdminRepository) Any(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM admin)`

	var exists bool
	if err := r.db.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}

	return exists, nil
}
