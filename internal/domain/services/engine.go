package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/ports"
	"github.com/ersonp/relate-core/internal/platform/logger"
)

// Result is what a relationship query returns. Relationships is
// populated for default queries, IDs when the spec asks for bare ids.
// Found is the total matching row count before pagination (or the page
// length when found-rows tracking is off), and MaxPages is derived
// from Found and the page size.
type Result struct {
	Relationships []*entities.Relationship
	IDs           []int64
	Found         int64
	MaxPages      int64
}

// Engine translates a declarative query spec into SQL, executes it,
// caches the resulting id list keyed by spec hash and generation
// counter, and hydrates full entities through the primed entity cache.
type Engine struct {
	db      ports.RelationshipDB
	cache   ports.Cache
	store   *Store
	log     *logger.Logger
	metrics *Metrics
}

// NewEngine creates an Engine sharing the store's cache. metrics may be
// nil.
func NewEngine(db ports.RelationshipDB, cache ports.Cache, store *Store, log *logger.Logger, metrics *Metrics) *Engine {
	return &Engine{
		db:      db,
		cache:   cache,
		store:   store,
		log:     log,
		metrics: metrics,
	}
}

// Query runs the spec and returns matching relationships (or ids, or a
// bare count in Result.Found when q.Count is set).
func (e *Engine) Query(ctx context.Context, q entities.Query) (*Result, error) {
	key, err := queryCacheKey(q)
	if err != nil {
		return nil, err
	}
	gen, err := lastChanged(ctx, e.cache)
	if err != nil {
		return nil, err
	}
	cacheKey := "query:" + key + ":" + gen

	ids, found, hit := e.cachedIDs(ctx, cacheKey)
	if hit {
		e.metrics.cacheHit()
	} else {
		e.metrics.cacheMiss()
		ids, found, err = e.execute(ctx, &q)
		if err != nil {
			return nil, err
		}
		e.cacheIDs(ctx, cacheKey, ids, found)
	}

	result := &Result{Found: found}
	if limit := q.Limit(); limit > 0 && found > 0 {
		result.MaxPages = (found + int64(limit) - 1) / int64(limit)
	}

	// A count query never hydrates, whatever Fields says.
	if q.Count {
		return result, nil
	}

	if q.Fields == entities.FieldsIDs {
		result.IDs = ids
		return result, nil
	}

	if !q.NoCachePrime {
		if err := e.store.Prime(ctx, ids); err != nil {
			e.log.Warn("query cache prime failed", "error", err)
		}
	}

	for _, id := range ids {
		rel, err := e.store.Get(ctx, id)
		if errors.Is(err, entities.ErrNotFound) {
			// Deleted between the id fetch and hydration; drop it.
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Relationships = append(result.Relationships, rel)
	}
	return result, nil
}

// Count returns the number of relationships matching the spec's
// filters, ignoring pagination and field settings.
func (e *Engine) Count(ctx context.Context, q entities.Query) (int64, error) {
	q.Count = true
	result, err := e.Query(ctx, q)
	if err != nil {
		return 0, err
	}
	return result.Found, nil
}

// execute runs the spec against the database: the scalar count for
// count queries, otherwise the id list plus the found-rows total when
// pagination wants it.
func (e *Engine) execute(ctx context.Context, q *entities.Query) ([]int64, int64, error) {
	e.metrics.queryExecuted()

	if q.Count {
		n, err := e.db.CountRows(ctx, q)
		if err != nil {
			return nil, 0, fmt.Errorf("counting relationships: %w", err)
		}
		return nil, n, nil
	}

	ids, err := e.db.SelectIDs(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("querying relationship ids: %w", err)
	}

	found := int64(len(ids))
	if q.Limit() > 0 && !q.NoFoundRows {
		found, err = e.db.CountRows(ctx, q)
		if err != nil {
			return nil, 0, fmt.Errorf("counting found rows: %w", err)
		}
	}
	return ids, found, nil
}

func (e *Engine) cachedIDs(ctx context.Context, key string) ([]int64, int64, bool) {
	raw, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.log.Warn("query cache read failed", "error", err)
		return nil, 0, false
	}
	if !ok {
		return nil, 0, false
	}

	var cv cachedResult
	if err := json.Unmarshal(raw, &cv); err != nil {
		e.log.Warn("query cache entry undecodable", "error", err)
		return nil, 0, false
	}
	return cv.IDs, cv.Found, true
}

func (e *Engine) cacheIDs(ctx context.Context, key string, ids []int64, found int64) {
	raw, err := json.Marshal(cachedResult{IDs: ids, Found: found})
	if err != nil {
		e.log.Warn("encoding query result for cache failed", "error", err)
		return
	}
	if err := e.cache.Set(ctx, key, raw); err != nil {
		e.log.Warn("query cache write failed", "error", err)
	}
}
