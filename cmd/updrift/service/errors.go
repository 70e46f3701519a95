package service

import "errors"

var (
	// ErrDuplicateVersion is returned when a release with the same
	// (type, version) already exists
	ErrDuplicateVersion = errors.New("version already exists")

	// ErrNotFound is returned when no release (or blob) matches
	ErrNotFound = errors.New("not found")

	// ErrAdminExists is returned when setup runs after the sole
	// administrator was already created
	ErrAdminExists = errors.New("admin already exists")

	// ErrInvalidCredentials is returned on a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
)
