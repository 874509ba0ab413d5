package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/mocks"
	"github.com/ersonp/relate-core/internal/domain/services"
	"github.com/ersonp/relate-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/relate-core/internal/platform/logger"
)

func newTestEngine(t *testing.T) (*services.Engine, *services.Store, *mocks.Cache, *sqlite.Repository) {
	t.Helper()

	repo := newTestDB(t)
	cache := mocks.NewCache()
	store := services.NewStore(repo, cache, logger.Nop(), nil)
	engine := services.NewEngine(repo, cache, store, logger.Nop(), nil)
	return engine, store, cache, repo
}

// querySets counts cache writes of query result entries.
func querySets(cache *mocks.Cache) int {
	n := 0
	for _, key := range cache.Sets {
		if strings.HasPrefix(key, "query:") {
			n++
		}
	}
	return n
}

func TestEngineQuery(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	a := createEdge(t, store, "post_post", 1, 101)
	b := createEdge(t, store, "post_post", 2, 102)
	createEdge(t, store, "post_taxonomy_term", 3, 103)

	inactive := createEdge(t, store, "post_post", 4, 104)
	_, _, err := store.SetStatus(ctx, inactive.ID, entities.StatusInactive)
	require.NoError(t, err)

	result, err := engine.Query(ctx, entities.Query{Type: "post_post", Status: "active"})
	require.NoError(t, err)

	require.Len(t, result.Relationships, 2)
	assert.Equal(t, a.ID, result.Relationships[0].ID)
	assert.Equal(t, b.ID, result.Relationships[1].ID)
	assert.Equal(t, int64(2), result.Found)
	assert.Equal(t, int64(1), result.MaxPages)
	assert.Nil(t, result.IDs)
}

func TestEngineQueryCachesResults(t *testing.T) {
	engine, store, cache, _ := newTestEngine(t)
	ctx := context.Background()

	createEdge(t, store, "post_post", 1, 101)

	q := entities.Query{Type: "post_post"}
	_, err := engine.Query(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, querySets(cache))

	// Identical spec, unchanged data: served from the cache.
	_, err = engine.Query(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, querySets(cache))
}

func TestEngineInvalidationOnMutation(t *testing.T) {
	engine, store, cache, _ := newTestEngine(t)
	ctx := context.Background()

	a := createEdge(t, store, "post_post", 1, 101)
	createEdge(t, store, "post_post", 2, 102)

	q := entities.Query{Type: "post_post", Status: "active"}

	result, err := engine.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, result.Relationships, 2)
	setsBefore := querySets(cache)

	_, _, err = store.SetStatus(ctx, a.ID, entities.StatusInactive)
	require.NoError(t, err)

	// The generation bump makes the cached entry unreachable; the same
	// spec re-executes and sees the new status.
	result, err = engine.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, entities.StatusActive, result.Relationships[0].Status)
	assert.Greater(t, querySets(cache), setsBefore)
}

func TestEngineCountNeverHydrates(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		createEdge(t, store, "post_post", int64(i+1), int64(i+100))
	}

	result, err := engine.Query(ctx, entities.Query{Type: "post_post", Count: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Found)
	assert.Nil(t, result.Relationships)
	assert.Nil(t, result.IDs)

	n, err := engine.Count(ctx, entities.Query{Type: "post_post"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestEngineFieldsIDs(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	var want []int64
	for i := 0; i < 3; i++ {
		want = append(want, createEdge(t, store, "post_post", int64(i+1), int64(i+100)).ID)
	}

	result, err := engine.Query(ctx, entities.Query{Fields: entities.FieldsIDs})
	require.NoError(t, err)
	assert.Equal(t, want, result.IDs)
	assert.Nil(t, result.Relationships)
}

func TestEnginePagination(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		createEdge(t, store, "post_post", int64(i+1), int64(i+100))
	}

	n := 10

	t.Run("first page", func(t *testing.T) {
		result, err := engine.Query(ctx, entities.Query{Number: &n})
		require.NoError(t, err)
		assert.Len(t, result.Relationships, 10)
		assert.Equal(t, int64(25), result.Found)
		assert.Equal(t, int64(3), result.MaxPages)
	})

	t.Run("last page is short", func(t *testing.T) {
		result, err := engine.Query(ctx, entities.Query{Number: &n, Offset: 20})
		require.NoError(t, err)
		assert.Len(t, result.Relationships, 5)
		assert.Equal(t, int64(25), result.Found)
		assert.Equal(t, int64(3), result.MaxPages)
	})

	t.Run("found rows tracking off", func(t *testing.T) {
		result, err := engine.Query(ctx, entities.Query{Number: &n, NoFoundRows: true})
		require.NoError(t, err)
		assert.Len(t, result.Relationships, 10)
		assert.Equal(t, int64(10), result.Found)
		assert.Equal(t, int64(1), result.MaxPages)
	})

	t.Run("unlimited", func(t *testing.T) {
		unlimited := 0
		result, err := engine.Query(ctx, entities.Query{Number: &unlimited})
		require.NoError(t, err)
		assert.Len(t, result.Relationships, 25)
		assert.Zero(t, result.MaxPages)
	})
}

func TestEngineDropsDeletedRows(t *testing.T) {
	engine, store, cache, repo := newTestEngine(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		ids = append(ids, createEdge(t, store, "post_post", int64(i+1), int64(i+100)).ID)
	}

	q := entities.Query{Type: "post_post"}
	result, err := engine.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, result.Relationships, 3)

	// The row vanishes without a generation bump: the cached id list is
	// stale, and hydration silently drops the dead id.
	_, err = repo.Delete(ctx, ids[1])
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, entityKey(ids[1])))

	result, err = engine.Query(ctx, q)
	require.NoError(t, err)
	require.Len(t, result.Relationships, 2)
	assert.Equal(t, ids[0], result.Relationships[0].ID)
	assert.Equal(t, ids[2], result.Relationships[1].ID)
}

func TestEngineSearch(t *testing.T) {
	engine, store, _, _ := newTestEngine(t)
	ctx := context.Background()

	names := []string{"foo middle bar", "barfoo", "plain"}
	for i, name := range names {
		f := edgeFields("post_post", int64(i+1), int64(i+100))
		f.Name = strptr(name)
		_, err := store.Create(ctx, f)
		require.NoError(t, err)
	}

	result, err := engine.Query(ctx, entities.Query{Search: "foo*bar"})
	require.NoError(t, err)
	require.Len(t, result.Relationships, 1)
	assert.Equal(t, "foo middle bar", result.Relationships[0].Name)

	// A blank search applies no filter.
	result, err = engine.Query(ctx, entities.Query{Search: ""})
	require.NoError(t, err)
	assert.Len(t, result.Relationships, 3)
}
