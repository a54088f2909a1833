// Package ratelimit implements the per-client fixed-window request limiter
// applied to the gateway's API routes.
//
// Each client key (normally the remote IP) gets a window that opens on its
// first request and lasts the configured duration. Requests beyond the limit
// inside a window are rejected until it ends. Counters live in a
// storage.Store; a Janitor purges ended windows on a cron schedule.
//
//	limiter, err := ratelimit.NewFromConfig(cfg.RateLimit, ratelimit.WithRecorder(collector))
//	res, err := limiter.Allow(ctx, clientIP)
//	if !res.Allowed {
//	    // 429, Retry-After: res.RetryAfter
//	}
package ratelimit
