package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the sole administrator record. At most one is ever created;
// enforced by application logic, not a store constraint.
// Maps to: admin table
type Admin struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	// PasswordHash is a reversible encoding of the password, kept for
	// compatibility with credentials stored by earlier deployments.
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
