package services_test

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/mocks"
	"github.com/ersonp/relate-core/internal/domain/services"
	"github.com/ersonp/relate-core/internal/infrastructure/config"
	"github.com/ersonp/relate-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/relate-core/internal/platform/logger"
)

func newTestDB(t *testing.T) *sqlite.Repository {
	t.Helper()

	repo, err := sqlite.NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func newTestStore(t *testing.T) (*services.Store, *mocks.Cache, *sqlite.Repository) {
	t.Helper()

	repo := newTestDB(t)
	cache := mocks.NewCache()
	store := services.NewStore(repo, cache, logger.Nop(), nil)
	return store, cache, repo
}

func strptr(s string) *string { return &s }
func i64ptr(n int64) *int64   { return &n }

func edgeFields(relType string, from, to int64) entities.Fields {
	return entities.Fields{
		Type:   strptr(relType),
		FromID: i64ptr(from),
		ToID:   i64ptr(to),
	}
}

func createEdge(t *testing.T, store *services.Store, relType string, from, to int64) *entities.Relationship {
	t.Helper()
	rel, err := store.Create(context.Background(), edgeFields(relType, from, to))
	require.NoError(t, err)
	return rel
}

func generation(cache *mocks.Cache) string {
	return string(cache.Value("last_changed"))
}

func entityKey(id int64) string {
	return "relationship:" + strconv.FormatInt(id, 10)
}

func TestStoreCreateAndGet(t *testing.T) {
	store, cache, _ := newTestStore(t)
	ctx := context.Background()

	f := edgeFields("post_post", 12, 47)
	f.Name = strptr("My Edge")

	rel, err := store.Create(ctx, f)
	require.NoError(t, err)

	assert.Positive(t, rel.ID)
	assert.Equal(t, entities.StatusActive, rel.Status)
	assert.Equal(t, "My Edge", rel.Name)
	assert.Equal(t, "my-edge", rel.Slug)
	assert.False(t, rel.Created.IsZero())

	// The create primes the entity cache and the generation counter.
	assert.True(t, cache.Has("relationship:1"))
	assert.NotEmpty(t, generation(cache))

	got, err := store.Get(ctx, rel.ID)
	require.NoError(t, err)
	assert.True(t, got.Equal(*rel))
}

func TestStoreCreateInvalidStatus(t *testing.T) {
	store, _, _ := newTestStore(t)

	f := edgeFields("post_post", 1, 2)
	f.Status = strptr("pending")

	_, err := store.Create(context.Background(), f)
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)
}

func TestStoreCreateTypeValidation(t *testing.T) {
	store, _, _ := newTestStore(t)
	store.AddValidator(services.NewTypeValidator(entities.DefaultRegistry()))
	ctx := context.Background()

	_, err := store.Create(ctx, edgeFields("bogus", 1, 2))
	assert.ErrorIs(t, err, entities.ErrInvalidType)

	_, err = store.Create(ctx, edgeFields("post_post", 1, 2))
	assert.NoError(t, err)
}

func TestStoreCreateInsertFailure(t *testing.T) {
	// No schema: the insert hits a missing table.
	repo, err := sqlite.NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	store := services.NewStore(repo, mocks.NewCache(), logger.Nop(), nil)
	_, err = store.Create(context.Background(), edgeFields("post_post", 1, 2))
	assert.ErrorIs(t, err, entities.ErrInsertFailed)
}

func TestStoreGetMissing(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Get(context.Background(), 999)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.True(t, services.IsNotFound(err))
}

func TestStoreUpdate(t *testing.T) {
	store, cache, repo := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)
	genBefore := generation(cache)

	updated, changed, err := store.Update(ctx, rel.ID, entities.Fields{Name: strptr("Renamed")})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Renamed", updated.Name)

	// The row, the cached entity, and the generation all moved.
	row, err := repo.FindByID(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", row.Name)

	got, err := store.Get(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	assert.NotEqual(t, genBefore, generation(cache))
}

func TestStoreUpdateNoOp(t *testing.T) {
	store, cache, _ := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)
	genBefore := generation(cache)

	got, changed, err := store.Update(ctx, rel.ID, entities.Fields{FromID: i64ptr(12)})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, got.Equal(*rel))

	// A no-op leaves all cached query results valid.
	assert.Equal(t, genBefore, generation(cache))
}

func TestStoreUpdateInvalid(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)

	_, _, err := store.Update(ctx, rel.ID, entities.Fields{Status: strptr("pending")})
	assert.ErrorIs(t, err, entities.ErrInvalidStatus)

	_, _, err = store.Update(ctx, 999, entities.Fields{Name: strptr("x")})
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestStoreSetStatus(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)

	updated, changed, err := store.SetStatus(ctx, rel.ID, entities.StatusInactive)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, entities.StatusInactive, updated.Status)

	// Setting the same status again is a benign no-op.
	_, changed, err = store.SetStatus(ctx, rel.ID, entities.StatusInactive)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestStoreDelete(t *testing.T) {
	store, cache, _ := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)
	genBefore := generation(cache)

	require.NoError(t, store.Delete(ctx, rel.ID))

	_, err := store.Get(ctx, rel.ID)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.NotEqual(t, genBefore, generation(cache))

	t.Run("missing id", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete(ctx, rel.ID), entities.ErrNotFound)
	})
}

func TestStoreDeleteRowGoneButCached(t *testing.T) {
	store, _, repo := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)

	// The row disappears underneath the cache; the keyed delete then
	// affects zero rows.
	_, err := repo.Delete(ctx, rel.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(ctx, rel.ID), entities.ErrDeleteFailed)
}

func TestStoreObservers(t *testing.T) {
	store, _, _ := newTestStore(t)
	obs := mocks.NewObserver()
	store.AddObserver(obs)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)
	_, _, err := store.Update(ctx, rel.ID, entities.Fields{Name: strptr("Renamed")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, rel.ID))

	require.Len(t, obs.Events, 3)
	assert.Equal(t, "created", obs.Events[0].Kind)
	assert.Equal(t, "updated", obs.Events[1].Kind)
	assert.Equal(t, "deleted", obs.Events[2].Kind)

	assert.Empty(t, obs.Events[1].Old.Name)
	assert.Equal(t, "Renamed", obs.Events[1].Rel.Name)
}

func TestStoreObserversSkippedOnNoOp(t *testing.T) {
	store, _, _ := newTestStore(t)
	obs := mocks.NewObserver()
	store.AddObserver(obs)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)
	_, changed, err := store.Update(ctx, rel.ID, entities.Fields{FromID: i64ptr(12)})
	require.NoError(t, err)
	require.False(t, changed)

	// Only the create fired.
	assert.Len(t, obs.Events, 1)
}

func TestStorePrime(t *testing.T) {
	store, cache, _ := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		ids = append(ids, createEdge(t, store, "post_post", int64(i+1), int64(i+100)).ID)
	}

	for _, id := range ids {
		require.NoError(t, cache.Delete(ctx, entityKey(id)))
	}

	require.NoError(t, store.Prime(ctx, ids))
	for _, id := range ids {
		assert.True(t, cache.Has(entityKey(id)), "id %d not primed", id)
	}
}

func TestStoreMeta(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	rel := createEdge(t, store, "post_post", 12, 47)

	t.Run("rejects a missing relationship", func(t *testing.T) {
		assert.ErrorIs(t, store.AddMeta(ctx, 999, "color", "red"), entities.ErrNotFound)
	})

	require.NoError(t, store.AddMeta(ctx, rel.ID, "color", "red"))
	require.NoError(t, store.AddMeta(ctx, rel.ID, "color", "blue"))

	values, err := store.GetMeta(ctx, rel.ID, "color")
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, values)

	meta, err := store.ListMeta(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"color": {"red", "blue"}}, meta)

	require.NoError(t, store.DeleteMeta(ctx, rel.ID, "color"))
	values, err = store.GetMeta(ctx, rel.ID, "color")
	require.NoError(t, err)
	assert.Empty(t, values)
}
