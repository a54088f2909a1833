package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vhbc/gateway/pkg/limits/ratelimit"
	"vhbc/gateway/pkg/proxy"
)

// Limiter counts requests per client key.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
	Window() time.Duration
}

// RateLimitMiddleware applies a fixed-window limit per client to requests
// whose path starts with prefix. Every limited response carries the
// RateLimit-* headers; rejected requests get 429 with a Retry-After.
//
// Store failures are logged and the request is let through.
//
// Example usage:
//
//	handler = RateLimitMiddleware(limiter, "/api/", false)(handler)
func RateLimitMiddleware(limiter Limiter, prefix string, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := ClientIP(r, trustProxy)

			res, err := limiter.Allow(ctx, key)
			if err != nil {
				slog.WarnContext(ctx, "rate limit store unavailable, allowing request",
					"client_ip", key,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w.Header(), res, limiter.Window(), time.Now())

			if !res.Allowed {
				w.Header().Set("Retry-After", strconv.FormatInt(ceilSeconds(res.RetryAfter), 10))
				slog.WarnContext(ctx, "rate limit exceeded",
					"client_ip", key,
					"limit", res.Limit,
					"reset", res.Reset,
				)
				_ = proxy.WriteErrorResponse(w, http.StatusTooManyRequests, proxy.TooManyRequestsBody)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders writes the draft IETF RateLimit header fields.
func setRateLimitHeaders(h http.Header, res ratelimit.Result, window time.Duration, now time.Time) {
	h.Set("RateLimit-Policy", fmt.Sprintf("%d;w=%d", res.Limit, int64(window/time.Second)))
	h.Set("RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
	h.Set("RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
	h.Set("RateLimit-Reset", strconv.FormatInt(ceilSeconds(res.Reset.Sub(now)), 10))
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Seconds()))
}
