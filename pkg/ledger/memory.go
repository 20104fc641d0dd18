package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultMemoryCapacity is the default ring size for MemoryStore.
const DefaultMemoryCapacity = 10000

// MemoryStore implements Store using a fixed-size ring buffer. When the
// ring is full the oldest record is overwritten, so memory stays bounded
// no matter how long the process runs. All records are lost on restart.
//
// MemoryStore is thread-safe and supports concurrent access using
// sync.RWMutex.
type MemoryStore struct {
	records  []*Record
	next     int
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewMemoryStore creates an in-memory ledger store holding at most
// capacity records. A capacity of zero or below uses
// DefaultMemoryCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}

	return &MemoryStore{
		records:  make([]*Record, capacity),
		capacity: capacity,
	}
}

// Append persists a record, overwriting the oldest when the ring is full.
func (m *MemoryStore) Append(ctx context.Context, record *Record) error {
	if record == nil {
		return NewStorageError("memory", "append", fmt.Errorf("record cannot be nil"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[m.next] = copyRecord(record)
	m.next = (m.next + 1) % m.capacity
	if m.size < m.capacity {
		m.size++
	}

	return nil
}

// Recent returns up to limit records, newest first.
func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 || limit > m.size {
		limit = m.size
	}

	results := make([]*Record, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (m.next - 1 - i + m.capacity*2) % m.capacity
		results = append(results, copyRecord(m.records[idx]))
	}

	return results, nil
}

// Count returns the number of stored records.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(m.size), nil
}

// DeleteBefore removes records with a timestamp before cutoff, oldest
// first, removing at most limit when limit is positive.
func (m *MemoryStore) DeleteBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := make([]*Record, 0, m.size)
	var removed int64

	// Walk the ring in insertion order so the oldest records go first
	for i := 0; i < m.size; i++ {
		idx := (m.next - m.size + i + m.capacity*2) % m.capacity
		record := m.records[idx]
		if record.Timestamp.Before(cutoff) && (limit <= 0 || removed < int64(limit)) {
			removed++
			continue
		}
		kept = append(kept, record)
	}

	m.records = make([]*Record, m.capacity)
	copy(m.records, kept)
	m.size = len(kept)
	m.next = m.size % m.capacity

	return removed, nil
}

// Close releases resources held by the store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = make([]*Record, m.capacity)
	m.size = 0
	m.next = 0

	return nil
}

// copyRecord clones a record so stored rows cannot be mutated by the
// caller afterwards.
func copyRecord(record *Record) *Record {
	clone := *record
	if record.Detected != nil {
		clone.Detected = append([]string(nil), record.Detected...)
	}
	return &clone
}
