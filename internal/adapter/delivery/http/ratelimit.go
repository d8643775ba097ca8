package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
)

// RateLimiter decides whether the request identified by key may proceed.
// Implementations live in internal/ratelimit.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// rateLimit throttles by client IP. Limiter errors are logged and the request
// is let through; precise limiting is never worth an outage.
func rateLimit(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				key = r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				httplog.LogEntrySetField(r.Context(), "rate_limit_err", slog.AnyValue(err))
			}

			if !allowed {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, tooManyRequestsResponse)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
