package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps windows in a map. Counters are lost when the process
// exits.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]Window
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]Window)}
}

// Increment implements Store.
func (m *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || !now.Before(w.ResetAt) {
		w = Window{ResetAt: now.Add(window)}
	}
	w.Count++
	m.windows[key] = w
	return w, nil
}

// Cleanup implements Store.
func (m *MemoryStore) Cleanup(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deleted := 0
	for key, w := range m.windows {
		if !now.Before(w.ResetAt) {
			delete(m.windows, key)
			deleted++
		}
	}
	return deleted, nil
}

// Len implements Store.
func (m *MemoryStore) Len(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows), nil
}

// Ping implements Store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
