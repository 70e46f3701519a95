package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/common/ratelimit"
)

// LoginRateLimit throttles login attempts per client address.
// Fails open on limiter errors: availability over strictness.
func LoginRateLimit(rateLimiter *ratelimit.RateLimiter, limit int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rateLimiter == nil {
				return next(c)
			}

			result, err := rateLimiter.CheckLoginLimit(c.Request().Context(), c.RealIP(), limit)
			if err != nil {
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "too_many_login_attempts",
					"message": "Too many login attempts. Please wait before trying again.",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window":              "60 seconds",
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
