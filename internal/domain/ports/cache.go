package ports

import "context"

// Cache is a byte-valued key-value cache. Implementations may evict
// entries at will; the store and query engine never rely on an entry
// surviving, only on Delete and generation bumps making stale entries
// unreachable.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key, overwriting any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
