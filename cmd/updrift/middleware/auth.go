package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ClaimsKey is the context key for the verified session claims
	ClaimsKey ContextKey = "auth_claims"
)

// RequireAuth verifies the Authorization bearer token on each request
// and stores the claims in the request context. Verification is
// stateless: signature and expiry only, no session lookup.
func RequireAuth(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "Unauthorized",
				})
			}

			claims, err := auth.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "Invalid or expired token",
				})
			}

			c.Set(string(ClaimsKey), claims)
			return next(c)
		}
	}
}

// GetClaims retrieves the verified claims from the request context.
// Returns nil when the request did not pass RequireAuth.
func GetClaims(c echo.Context) *service.AuthClaims {
	claims, _ := c.Get(string(ClaimsKey)).(*service.AuthClaims)
	return claims
}

// RequireAPIKey guards a route with a static header secret, independent
// of the token scheme. A server without a configured key rejects every
// request rather than failing open.
func RequireAPIKey(expected string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if expected == "" {
				return c.JSON(http.StatusInternalServerError, map[string]interface{}{
					"error": "Server misconfigured: no API key set",
				})
			}

			if c.Request().Header.Get("X-API-Key") != expected {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "Invalid or missing API key",
				})
			}

			return next(c)
		}
	}
}
