// Package cache implements the session-scoped read-through cache. Entries
// live until a write path invalidates their key prefix; there is no TTL and
// no eviction, so coherency depends entirely on invalidation-on-write.
package cache

import (
	"strings"
	"sync"
)

// Store defines the session cache operations.
type Store interface {
	// Get retrieves a cached value.
	Get(key string) (any, bool)

	// Set stores a value and returns it for chaining.
	Set(key string, value any) any

	// Invalidate removes every entry whose key starts with prefix.
	Invalidate(prefix string)

	// Len returns the current number of entries.
	Len() int

	// Clear drops all entries.
	Clear()
}

// Memory is the in-process Store used for one running session.
type Memory struct {
	mu    sync.Mutex
	items map[string]any
}

// NewMemory creates an empty session cache.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]any)}
}

func (c *Memory) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *Memory) Set(key string, value any) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return value
}

func (c *Memory) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
}

func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]any)
}
