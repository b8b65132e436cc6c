// Package cache is the explicit cache abstraction for upstream feed
// responses: LRU capacity eviction plus TTL expiry checked against an
// injectable clock, so tests never sleep.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	val      V
	storedAt time.Time
}

// Cache is a TTL+LRU cache keyed by string. Not owned by the decision
// engine; the feeds layer is the only writer.
type Cache[V any] struct {
	lru *lru.Cache[string, entry[V]]
	ttl time.Duration
	now func() time.Time
}

// New builds a cache with the given capacity and TTL. A nil clock uses
// time.Now.
func New[V any](size int, ttl time.Duration, now func() time.Time) (*Cache[V], error) {
	l, err := lru.New[string, entry[V]](size)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Cache[V]{lru: l, ttl: ttl, now: now}, nil
}

// Get returns the cached value if present and not expired. Expired entries
// are evicted on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	e, ok := c.lru.Get(key)
	if !ok {
		return zero, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		c.lru.Remove(key)
		return zero, false
	}
	return e.val, true
}

// Set stores a value, stamping it with the injected clock.
func (c *Cache[V]) Set(key string, value V) {
	c.lru.Add(key, entry[V]{val: value, storedAt: c.now()})
}

// Purge drops everything. Used when a feed signals a full refresh.
func (c *Cache[V]) Purge() {
	c.lru.Purge()
}

// Len returns the number of live entries, counting expired ones that have
// not been touched since expiry.
func (c *Cache[V]) Len() int {
	return c.lru.Len()
}
