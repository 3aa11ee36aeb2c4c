// Package cache holds a small in-memory TTL cache used for hot-path reads.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a concurrency-safe map whose entries expire after a fixed TTL.
// Expired entries are evicted lazily on read.
type TTLCache[K comparable, V any] struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[K]entry[V]
}

// New returns a TTLCache whose entries live for ttl. A non-positive ttl
// means entries never expire.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// Get returns the cached value for key, evicting it first if expired.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		c.Delete(key)
		return zero, false
	}
	return item.value, true
}

// Set stores value under key, resetting its expiry.
func (c *TTLCache[K, V]) Set(key K, value V) {
	if c == nil {
		return
	}
	item := entry[V]{value: value}
	if c.ttl > 0 {
		item.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

// Delete evicts key if present.
func (c *TTLCache[K, V]) Delete(key K) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}
