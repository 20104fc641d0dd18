package quota

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore implements Store using in-memory counters. This is the
// default store and provides fast access with no persistence. All
// counts are lost when the process exits, which resets every space's
// window.
//
// MemoryStore is thread-safe and supports concurrent access using
// sync.RWMutex.
type MemoryStore struct {
	// usage maps day to per-space call counts.
	usage map[string]map[string]int64

	// mu protects access to the usage map.
	mu sync.RWMutex
}

// NewMemoryStore creates a new in-memory quota store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usage: make(map[string]map[string]int64),
	}
}

// Usage returns the number of calls recorded for the space on the
// given day.
func (m *MemoryStore) Usage(ctx context.Context, spaceKey, day string) (int64, error) {
	if spaceKey == "" {
		return 0, fmt.Errorf("space key cannot be empty")
	}
	if day == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.usage[day][spaceKey], nil
}

// Increment adds one call for the space on the given day and returns
// the new total.
func (m *MemoryStore) Increment(ctx context.Context, spaceKey, day string) (int64, error) {
	if spaceKey == "" {
		return 0, fmt.Errorf("space key cannot be empty")
	}
	if day == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	counts, ok := m.usage[day]
	if !ok {
		counts = make(map[string]int64)
		m.usage[day] = counts
	}
	counts[spaceKey]++

	return counts[spaceKey], nil
}

// Cleanup removes usage for days before the given day and returns the
// number of per-space counters removed.
func (m *MemoryStore) Cleanup(ctx context.Context, before string) (int, error) {
	if before == "" {
		return 0, fmt.Errorf("day cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for day, counts := range m.usage {
		if day < before {
			removed += len(counts)
			delete(m.usage, day)
		}
	}

	return removed, nil
}

// Close releases any resources held by the store. For MemoryStore this
// is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
