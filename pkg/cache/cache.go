package cache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// DefaultTTL is the time-to-live applied when none is configured.
	DefaultTTL = time.Hour

	// DefaultCapacity is the entry bound applied when none is configured.
	DefaultCapacity = 1000

	// DefaultShards is the shard count applied when none is configured.
	DefaultShards = 16
)

// Config contains configuration for the response cache.
type Config struct {
	// TTL is the maximum entry age before it is treated as absent.
	TTL time.Duration

	// Capacity is the maximum number of entries across all shards.
	Capacity int

	// Shards is the number of lock shards (rounded up to a power of two).
	Shards int
}

// entry is one cached response. Entries are immutable after insertion;
// replacement writes a new entry.
type entry struct {
	value     string
	createdAt time.Time
}

// shard is one independently locked slice of the key space.
type shard struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Expirations int64
	Size        int
	Capacity    int
}

// Cache is a sharded, TTL-bounded, capacity-bounded response store.
type Cache struct {
	shards    []*shard
	shardMask uint32
	ttl       time.Duration
	capacity  int

	size        atomic.Int64
	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}

// New creates a cache from cfg, filling zero values with defaults.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Shards <= 0 {
		cfg.Shards = DefaultShards
	}

	n := nextPowerOfTwo(cfg.Shards)
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{entries: make(map[string]entry)}
	}

	return &Cache{
		shards:    shards,
		shardMask: uint32(n - 1),
		ttl:       cfg.TTL,
		capacity:  cfg.Capacity,
	}
}

// shardFor maps a key to its shard.
func (c *Cache) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return c.shards[h.Sum32()&c.shardMask]
}

// Get returns the value under key, or ok=false when the key is absent or
// its entry has outlived the TTL. An expired entry is purged by the read
// that finds it.
func (c *Cache) Get(key string) (string, bool) {
	s := c.shardFor(key)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return "", false
	}

	if time.Since(e.createdAt) > c.ttl {
		s.mu.Lock()
		// Re-check: the entry may have been replaced since the read.
		if cur, ok := s.entries[key]; ok && cur.createdAt.Equal(e.createdAt) {
			delete(s.entries, key)
			c.size.Add(-1)
			c.expirations.Add(1)
		}
		s.mu.Unlock()

		c.misses.Add(1)
		return "", false
	}

	c.hits.Add(1)
	return e.value, true
}

// Put stores value under key. Writing an existing key replaces its entry
// with a fresh creation timestamp. Inserting a new key at capacity first
// evicts the oldest entry by creation time.
func (c *Cache) Put(key, value string) {
	s := c.shardFor(key)
	now := time.Now()

	s.mu.Lock()
	if _, ok := s.entries[key]; ok {
		s.entries[key] = entry{value: value, createdAt: now}
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	// New key: make room before inserting.
	for c.size.Load() >= int64(c.capacity) {
		if !c.evictOldest() {
			break
		}
	}

	s.mu.Lock()
	if _, ok := s.entries[key]; !ok {
		c.size.Add(1)
	}
	s.entries[key] = entry{value: value, createdAt: now}
	s.mu.Unlock()

	// Concurrent inserts can race past the room check; converge back
	// under the bound.
	for c.size.Load() > int64(c.capacity) {
		if !c.evictOldest() {
			break
		}
	}
}

// evictOldest removes the entry with the earliest creation timestamp
// across all shards, breaking timestamp ties by key order. A victim that
// was replaced or removed between scan and delete triggers a rescan, so
// the only false return is an empty cache.
func (c *Cache) evictOldest() bool {
	for {
		var (
			victimShard *shard
			victimKey   string
			victimAt    time.Time
			found       bool
		)

		for _, s := range c.shards {
			s.mu.RLock()
			for key, e := range s.entries {
				if !found || e.createdAt.Before(victimAt) ||
					(e.createdAt.Equal(victimAt) && key < victimKey) {
					victimShard, victimKey, victimAt = s, key, e.createdAt
					found = true
				}
			}
			s.mu.RUnlock()
		}

		if !found {
			return false
		}

		victimShard.mu.Lock()
		cur, ok := victimShard.entries[victimKey]
		if ok && cur.createdAt.Equal(victimAt) {
			delete(victimShard.entries, victimKey)
			c.size.Add(-1)
			c.evictions.Add(1)
			victimShard.mu.Unlock()
			return true
		}
		victimShard.mu.Unlock()
	}
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
		Size:        c.Len(),
		Capacity:    c.capacity,
	}
}

// nextPowerOfTwo rounds n up to the nearest power of two.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
