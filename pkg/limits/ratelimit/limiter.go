package ratelimit

import (
	"context"
	"fmt"
	"time"

	"vhbc/gateway/pkg/config"
	"vhbc/gateway/pkg/limits/storage"
)

// Limiter allows at most Limit requests per client in each fixed window.
type Limiter struct {
	store    storage.Store
	limit    int64
	window   time.Duration
	recorder Recorder
	now      func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithRecorder sets the event recorder.
func WithRecorder(r Recorder) Option {
	return func(l *Limiter) {
		if r != nil {
			l.recorder = r
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter creates a limiter over store.
func NewLimiter(store storage.Store, limit int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		store:    store,
		limit:    int64(limit),
		window:   window,
		recorder: nopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow counts a request from key and reports whether it is within the
// limit. Store failures are returned with an allowing result, so callers
// that ignore the error fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	now := l.now()

	w, err := l.store.Increment(ctx, key, l.window, now)
	if err != nil {
		l.recorder.RecordRateLimitStoreError("increment")
		return Result{Allowed: true, Limit: l.limit, Remaining: l.limit, Reset: now.Add(l.window)},
			fmt.Errorf("rate limit store: %w", err)
	}

	res := Result{
		Allowed:   w.Count <= l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-w.Count, 0),
		Reset:     w.ResetAt,
	}
	if !res.Allowed {
		res.RetryAfter = w.ResetAt.Sub(now)
		l.recorder.RecordRateLimitRejection()
	}
	return res, nil
}

// Cleanup purges ended windows and refreshes the tracked clients gauge.
func (l *Limiter) Cleanup(ctx context.Context) (int, error) {
	deleted, err := l.store.Cleanup(ctx, l.now())
	if err != nil {
		l.recorder.RecordRateLimitStoreError("cleanup")
		return 0, err
	}
	if n, err := l.store.Len(ctx); err == nil {
		l.recorder.SetRateLimitKeys(n)
	}
	return deleted, nil
}

// Ping checks the underlying store.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.store.Ping(ctx)
}

// Close closes the underlying store.
func (l *Limiter) Close() error {
	return l.store.Close()
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

// NewStoreFromConfig opens the store selected by cfg.
func NewStoreFromConfig(cfg config.RateLimitStorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return storage.NewMemoryStore(), nil
	case "sqlite":
		return storage.NewSQLiteStore(storage.SQLiteConfig{
			Path:        cfg.SQLite.Path,
			Driver:      cfg.SQLite.Driver,
			BusyTimeout: cfg.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported rate limit backend %q", cfg.Backend)
	}
}

// NewFromConfig builds a limiter and its store from configuration.
func NewFromConfig(cfg config.RateLimitConfig, opts ...Option) (*Limiter, error) {
	store, err := NewStoreFromConfig(cfg.Storage)
	if err != nil {
		return nil, err
	}
	return NewLimiter(store, cfg.MaxRequests, cfg.Window, opts...), nil
}
