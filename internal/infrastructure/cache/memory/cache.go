// Package memory provides an in-process implementation of the Cache
// port. It is the default backend; entries live until deleted or the
// process exits.
package memory

import (
	"context"
	"sync"
)

// Cache is a mutex-guarded map cache.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers can't mutate the cached bytes.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores a value under key, overwriting any existing value.
func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.items[key] = stored
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// Len reports the number of cached entries. Test helper.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
