package storage

import (
	"context"
	"time"
)

// Store persists fixed-window request counters keyed by client.
// Implementations must be safe for concurrent use.
type Store interface {
	// Increment counts one request for key in the window that contains now.
	// When no window is open, or the open one ended at or before now, a new
	// window of length window starts at now. It returns the count including
	// this request and the end of the window.
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)

	// Cleanup removes windows that ended at or before now and returns how
	// many were removed.
	Cleanup(ctx context.Context, now time.Time) (int, error)

	// Len returns the number of windows currently held.
	Len(ctx context.Context) (int, error)

	// Ping reports whether the store is usable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// Window is the state of one client's current window.
type Window struct {
	Count   int64
	ResetAt time.Time
}
