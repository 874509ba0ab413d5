package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/ports"
)

// lastChangedKey holds the generation counter. Every mutation writes a
// fresh value here; query result keys embed the current value, so a
// bump makes every outstanding query cache entry unreachable without
// enumerating them.
const lastChangedKey = "last_changed"

// entityCacheKey is the per-entity snapshot key.
func entityCacheKey(id int64) string {
	return "relationship:" + strconv.FormatInt(id, 10)
}

// queryCacheKey derives a stable key from the merged query spec. Only
// recognized fields participate (the spec is a closed struct), so
// incidental extra request data can never fragment the cache.
func queryCacheKey(q entities.Query) (string, error) {
	limit := q.Limit()
	q.Number = &limit

	data, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encoding query for cache key: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// lastChanged reads the generation counter, initializing it on first
// use. Values only need to be unique, not ordered.
func lastChanged(ctx context.Context, cache ports.Cache) (string, error) {
	value, ok, err := cache.Get(ctx, lastChangedKey)
	if err != nil {
		return "", fmt.Errorf("reading generation counter: %w", err)
	}
	if ok {
		return string(value), nil
	}

	gen := uuid.NewString()
	if err := cache.Set(ctx, lastChangedKey, []byte(gen)); err != nil {
		return "", fmt.Errorf("initializing generation counter: %w", err)
	}
	return gen, nil
}

// bumpLastChanged invalidates all cached query results at once.
func bumpLastChanged(ctx context.Context, cache ports.Cache) error {
	return cache.Set(ctx, lastChangedKey, []byte(uuid.NewString()))
}

func encodeRelationship(rel *entities.Relationship) ([]byte, error) {
	return json.Marshal(rel)
}

func decodeRelationship(data []byte) (*entities.Relationship, error) {
	var rel entities.Relationship
	if err := json.Unmarshal(data, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// cachedResult is the value stored per query cache key. Count queries
// store the scalar in Found with a nil id list.
type cachedResult struct {
	IDs   []int64 `json:"ids"`
	Found int64   `json:"found"`
}
