package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jekabolt/privshop-seller/internal/dependency"
)

// RateLimit passes a request on only while its key is within the limiter's budget and calls
// reject otherwise. The key is the identity returned by identity, or the client IP for
// anonymous requests. Limiter errors let the request through.
func RateLimit(limiter dependency.RateLimiter, identity func(context.Context) string, reject http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := identity(ctx)
			if key == "" {
				key = "ip:" + GetClientIP(ctx)
			}

			allowed, err := limiter.Allow(ctx, key)
			if err != nil {
				slog.Default().ErrorContext(ctx, "rate limiter unavailable",
					slog.String("err", err.Error()),
				)
				allowed = true
			}
			if !allowed {
				slog.Default().InfoContext(ctx, "rate limit exceeded",
					slog.String("key", key),
				)
				reject(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
