package secrets

import (
	"sync"
	"time"
)

// CacheConfig configures the secret cache behavior.
type CacheConfig struct {
	Enabled bool          // Enable caching
	TTL     time.Duration // Time to live for cached secrets
	MaxSize int           // Maximum number of secrets to cache
}

// Cache holds resolved secrets for a bounded time so token lookup
// stays off the request hot path. Entries expire after the configured
// TTL, which is also how long a rotated key can take to be picked up.
//
// The cache is small by design: quill resolves a handful of names, so
// a plain mutex-guarded map is enough.
type Cache struct {
	config CacheConfig

	mu      sync.RWMutex
	values  map[string]string
	expires map[string]time.Time
}

// NewCache creates a secret cache with the given configuration.
func NewCache(config CacheConfig) *Cache {
	return &Cache{
		config:  config,
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (string, bool) {
	if !c.config.Enabled {
		return "", false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	deadline, ok := c.expires[key]
	if !ok || time.Now().After(deadline) {
		return "", false
	}
	return c.values[key], true
}

// Set stores value under key for one TTL. At capacity, expired entries
// are swept first; if the cache is still full, the entry nearest its
// deadline is dropped.
func (c *Cache) Set(key, value string) {
	if !c.config.Enabled {
		return
	}

	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.values[key]; !exists && len(c.values) >= c.config.MaxSize {
		for k, deadline := range c.expires {
			if now.After(deadline) {
				c.remove(k)
			}
		}
		if len(c.values) >= c.config.MaxSize {
			c.remove(c.soonestExpiring())
		}
	}

	c.values[key] = value
	c.expires[key] = now.Add(c.config.TTL)
}

// Delete removes a single entry, forcing the next Get to miss.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// Clear drops every entry. Refresh uses it so rotated secrets take
// effect immediately rather than after one TTL.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string)
	c.expires = make(map[string]time.Time)
}

// Size returns the current number of cached entries, expired or not.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.values)
}

// remove deletes key from both maps. Callers hold the write lock.
func (c *Cache) remove(key string) {
	delete(c.values, key)
	delete(c.expires, key)
}

// soonestExpiring returns the key with the nearest deadline, or "" when
// the cache is empty. Callers hold the write lock.
func (c *Cache) soonestExpiring() string {
	var victim string
	var deadline time.Time
	for k, d := range c.expires {
		if victim == "" || d.Before(deadline) {
			victim = k
			deadline = d
		}
	}
	return victim
}
