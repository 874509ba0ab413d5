// Package mocks provides hand-rolled test doubles for the domain
// ports.
package mocks

import (
	"context"
	"sync"
)

// Cache is a mock implementation of ports.Cache that records
// operations and can inject errors.
type Cache struct {
	mu    sync.Mutex
	items map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error

	Gets    []string
	Sets    []string
	Deletes []string
}

// NewCache creates an empty mock cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Gets = append(c.Gets, key)
	if c.GetErr != nil {
		return nil, false, c.GetErr
	}
	value, ok := c.items[key]
	return value, ok, nil
}

// Set stores a value under key.
func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Sets = append(c.Sets, key)
	if c.SetErr != nil {
		return c.SetErr
	}
	c.items[key] = value
	return nil
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Deletes = append(c.Deletes, key)
	if c.DeleteErr != nil {
		return c.DeleteErr
	}
	delete(c.items, key)
	return nil
}

// Has reports whether key is cached. Test helper.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Value returns the raw cached bytes for key. Test helper.
func (c *Cache) Value(key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items[key]
}
