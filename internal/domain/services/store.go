package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/ports"
	"github.com/ersonp/relate-core/internal/platform/logger"
)

// Store owns single-relationship CRUD with validation and cache
// coherence. Every successful mutation writes the row, adjusts the
// per-entity cache, then bumps the generation counter so all cached
// query results go stale.
//
// The row write and the generation bump are two sequential calls, not
// one transaction. A reader racing between them can cache a result set
// under the new generation that predates the write; the entry stays
// until the next bump makes it unreachable.
type Store struct {
	db      ports.RelationshipDB
	cache   ports.Cache
	log     *logger.Logger
	metrics *Metrics

	validators []ports.Validator
	observers  []ports.Observer

	now func() time.Time
}

// NewStore creates a Store. metrics may be nil.
func NewStore(db ports.RelationshipDB, cache ports.Cache, log *logger.Logger, metrics *Metrics) *Store {
	return &Store{
		db:      db,
		cache:   cache,
		log:     log,
		metrics: metrics,
		now:     time.Now,
	}
}

// AddValidator registers a validator run after sanitization on every
// create and update, in registration order.
func (s *Store) AddValidator(v ports.Validator) {
	s.validators = append(s.validators, v)
}

// AddObserver registers an observer notified synchronously after every
// successful mutation, in registration order.
func (s *Store) AddObserver(o ports.Observer) {
	s.observers = append(s.observers, o)
}

// Create sanitizes and inserts a new relationship, then re-reads it so
// the entity cache is primed with exactly what the database holds.
func (s *Store) Create(ctx context.Context, f entities.Fields) (*entities.Relationship, error) {
	rel, err := entities.Sanitize(entities.NewRelationship(s.now()), f, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &rel); err != nil {
		return nil, err
	}

	id, err := s.db.Insert(ctx, &rel)
	if err != nil {
		s.log.Error("relationship insert failed", "error", err)
		return nil, entities.ErrInsertFailed
	}

	if err := bumpLastChanged(ctx, s.cache); err != nil {
		s.log.Warn("generation bump failed after insert", "error", err, "id", id)
	}

	created, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.metrics.mutation("create")
	for _, o := range s.observers {
		o.RelationshipCreated(ctx, created)
	}
	return created, nil
}

// Get is a cache-first lookup by id. On a miss it fetches the row,
// primes the entity cache, and makes sure the generation counter
// exists.
func (s *Store) Get(ctx context.Context, id int64) (*entities.Relationship, error) {
	key := entityCacheKey(id)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("entity cache read failed", "error", err, "id", id)
	} else if ok {
		if rel, err := decodeRelationship(raw); err == nil {
			return rel, nil
		}
		// Undecodable entry: fall through to the database.
	}

	rel, err := s.db.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching relationship %d: %w", id, err)
	}
	if rel == nil {
		return nil, entities.ErrNotFound
	}

	s.cacheEntity(ctx, rel)
	if _, err := lastChanged(ctx, s.cache); err != nil {
		s.log.Warn("generation counter init failed", "error", err)
	}
	return rel, nil
}

// Update re-validates the supplied fields against the current row and
// performs a keyed update. A field set that changes nothing returns
// (current, false, nil) without touching the database — a benign
// no-op, not a failure.
func (s *Store) Update(ctx context.Context, id int64, f entities.Fields) (*entities.Relationship, bool, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	next, err := entities.Sanitize(*current, f, s.now())
	if err != nil {
		return nil, false, err
	}
	if err := s.validate(ctx, &next); err != nil {
		return nil, false, err
	}

	if next.Equal(*current) {
		return current, false, nil
	}

	if _, err := s.db.Update(ctx, &next); err != nil {
		// Zero affected rows without a driver error never reaches this
		// branch; identical values were already handled above.
		s.log.Error("relationship update failed", "error", err, "id", id)
		return nil, false, entities.ErrUpdateFailed
	}

	s.cacheEntity(ctx, &next)
	if err := bumpLastChanged(ctx, s.cache); err != nil {
		s.log.Warn("generation bump failed after update", "error", err, "id", id)
	}

	s.metrics.mutation("update")
	for _, o := range s.observers {
		o.RelationshipUpdated(ctx, current, &next)
	}
	return &next, true, nil
}

// SetStatus is a convenience wrapper constraining the field set to
// status.
func (s *Store) SetStatus(ctx context.Context, id int64, status entities.Status) (*entities.Relationship, bool, error) {
	v := string(status)
	return s.Update(ctx, id, entities.Fields{Status: &v})
}

// Delete hard-deletes a relationship, evicts it from the cache, and
// bumps the generation counter. Deleting an id with no row returns
// ErrDeleteFailed.
func (s *Store) Delete(ctx context.Context, id int64) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	affected, err := s.db.Delete(ctx, id)
	if err != nil {
		s.log.Error("relationship delete failed", "error", err, "id", id)
		return entities.ErrDeleteFailed
	}
	if affected == 0 {
		return entities.ErrDeleteFailed
	}

	if err := s.cache.Delete(ctx, entityCacheKey(id)); err != nil {
		s.log.Warn("entity cache eviction failed", "error", err, "id", id)
	}
	if err := bumpLastChanged(ctx, s.cache); err != nil {
		s.log.Warn("generation bump failed after delete", "error", err, "id", id)
	}

	s.metrics.mutation("delete")
	for _, o := range s.observers {
		o.RelationshipDeleted(ctx, current)
	}
	return nil
}

// Prime batch-fetches the given ids that are not yet cached and
// populates the entity cache for each, in one query. Used by the query
// engine to avoid N+1 lookups during hydration.
func (s *Store) Prime(ctx context.Context, ids []int64) error {
	var missing []int64
	for _, id := range ids {
		if _, ok, err := s.cache.Get(ctx, entityCacheKey(id)); err != nil || !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	fresh, err := s.db.FindByIDs(ctx, missing)
	if err != nil {
		return fmt.Errorf("priming relationship cache: %w", err)
	}
	for _, rel := range fresh {
		s.cacheEntity(ctx, rel)
	}
	return nil
}

// Metadata passthroughs. Metadata is extension data and does not
// participate in entity caching or generation bumps beyond what the
// query engine's meta filters read live from the table.

func (s *Store) AddMeta(ctx context.Context, id int64, key, value string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.db.AddMeta(ctx, id, key, value)
}

func (s *Store) GetMeta(ctx context.Context, id int64, key string) ([]string, error) {
	return s.db.GetMeta(ctx, id, key)
}

func (s *Store) DeleteMeta(ctx context.Context, id int64, key string) error {
	return s.db.DeleteMeta(ctx, id, key)
}

func (s *Store) ListMeta(ctx context.Context, id int64) (map[string][]string, error) {
	return s.db.ListMeta(ctx, id)
}

func (s *Store) validate(ctx context.Context, rel *entities.Relationship) error {
	for _, v := range s.validators {
		if err := v.Validate(ctx, rel); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) cacheEntity(ctx context.Context, rel *entities.Relationship) {
	raw, err := encodeRelationship(rel)
	if err != nil {
		s.log.Warn("encoding relationship for cache failed", "error", err, "id", rel.ID)
		return
	}
	if err := s.cache.Set(ctx, entityCacheKey(rel.ID), raw); err != nil {
		s.log.Warn("entity cache write failed", "error", err, "id", rel.ID)
	}
}

// IsNotFound reports whether err is the not-found kind. Convenience
// for callers mapping errors to user-facing behavior.
func IsNotFound(err error) bool {
	return errors.Is(err, entities.ErrNotFound)
}
