package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/common/logger"
)

// AuthClaims carries the administrator identity in a session token
type AuthClaims struct {
	Email string `json:"email"`
	ID    string `json:"id"`
	jwt.RegisteredClaims
}

// AuthService manages the sole administrator and its session tokens
type AuthService struct {
	admins AdminStore
	secret []byte
	ttl    time.Duration
	log    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(admins AdminStore, secret string, ttl time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		admins: admins,
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
	}
}

// Setup creates the sole administrator. Returns ErrAdminExists when one
// was already created; the existence check hits the store so the
// single-admin state survives restarts.
func (s *AuthService) Setup(ctx context.Context, email, password string) (*models.Admin, error) {
	exists, err := s.admins.Any(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		return nil, ErrAdminExists
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: EncodePassword(password),
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.log.Info("admin created", "email", email)
	return admin, nil
}

// Login verifies credentials and issues a signed session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Admin, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin.PasswordHash != EncodePassword(password) {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now()
	claims := AuthClaims{
		Email: admin.Email,
		ID:    admin.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.log.Info("admin logged in", "email", email)
	return signed, admin, nil
}

// Verify checks signature and expiry of a session token
func (s *AuthService) Verify(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// EncodePassword applies the stored-credential encoding.
// This is a reversible base64 encoding, not a password hash; kept for
// compatibility with credentials written by earlier deployments.
func EncodePassword(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}
