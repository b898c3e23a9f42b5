package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/alterwhite/alterwhite-api/internal/cache"
)

// IPRateLimiter checks whether a request from the given IP is allowed.
type IPRateLimiter interface {
	CheckIPRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig holds rate limit settings for a route.
type RateLimitConfig struct {
	Enabled       bool
	RatePerSecond int
	Burst         int
}

// IPRateLimit throttles requests per client IP. Intended for the token
// issuance endpoint, which carries no credential of its own.
func IPRateLimit(limiter IPRateLimiter, cfg RateLimitConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || limiter == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			result, err := limiter.CheckIPRateLimit(r.Context(), ip, cfg.RatePerSecond, cfg.Burst)
			if err != nil {
				// Fail open, the limiter is best effort.
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				if logger != nil {
					logger.Warn("rate limit exceeded",
						slog.String("path", r.URL.Path),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}

				w.Header().Set("Content-Type", "application/json")
				if result.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				}
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "too many requests",
					"code":  "RATE_LIMITED",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client address without the port. Falls back to
// the raw RemoteAddr when it does not parse.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
