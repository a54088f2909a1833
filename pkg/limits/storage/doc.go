// Package storage holds the rate limiter's per-client window counters.
//
// MemoryStore is the default. SQLiteStore persists counters across restarts
// and works with either the pure Go modernc.org/sqlite driver ("sqlite") or
// the cgo github.com/mattn/go-sqlite3 driver ("sqlite3").
package storage
