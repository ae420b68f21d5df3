package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultCleanupInterval = 30 * time.Second

// NameStore is a key/value cache of display names
type NameStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, name string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// InMemoryNameCache is a process-local NameStore. It is the L1 tier in
// front of Redis and the only tier when Redis is disabled.
type InMemoryNameCache struct {
	entries sync.Map // map[string]cacheEntry
	stopCh  chan struct{}
	stopped atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheEntry struct {
	name      string
	expiresAt time.Time
}

func (e cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// NewInMemoryNameCache creates a cache and starts its cleanup goroutine
func NewInMemoryNameCache() *InMemoryNameCache {
	return newInMemoryNameCache(defaultCleanupInterval)
}

func newInMemoryNameCache(cleanupInterval time.Duration) *InMemoryNameCache {
	c := &InMemoryNameCache{stopCh: make(chan struct{})}
	go c.cleanupExpired(cleanupInterval)
	return c
}

// Get returns the cached name for key
func (c *InMemoryNameCache) Get(_ context.Context, key string) (string, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(cacheEntry)
		if !entry.isExpired(time.Now()) {
			c.hits.Add(1)
			return entry.name, true, nil
		}
		c.entries.Delete(key)
	}
	c.misses.Add(1)
	return "", false, nil
}

// Set stores name under key for ttl
func (c *InMemoryNameCache) Set(_ context.Context, key, name string, ttl time.Duration) error {
	c.entries.Store(key, cacheEntry{name: name, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes key
func (c *InMemoryNameCache) Delete(_ context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// Stats returns the hit and miss counts
func (c *InMemoryNameCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryNameCache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (c *InMemoryNameCache) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		close(c.stopCh)
	}
}

func (c *InMemoryNameCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(cacheEntry).isExpired(now) {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}

var _ NameStore = (*InMemoryNameCache)(nil)
