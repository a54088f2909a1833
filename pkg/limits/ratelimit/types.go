package ratelimit

import "time"

// Result is the outcome of counting one request.
type Result struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Limit is the configured maximum per window.
	Limit int64

	// Remaining is how many requests remain in the window, never negative.
	Remaining int64

	// Reset is when the current window ends.
	Reset time.Time

	// RetryAfter is how long a rejected client should wait. Zero when allowed.
	RetryAfter time.Duration
}

// Recorder receives limiter events. The metrics collector implements it.
type Recorder interface {
	RecordRateLimitRejection()
	RecordRateLimitStoreError(op string)
	SetRateLimitKeys(n int)
}

type nopRecorder struct{}

func (nopRecorder) RecordRateLimitRejection()        {}
func (nopRecorder) RecordRateLimitStoreError(string) {}
func (nopRecorder) SetRateLimitKeys(int)             {}
