package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/infrastructure/config"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()

	repo, err := NewRepository(config.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func testRelationship(relType string, from, to int64) entities.Relationship {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rel := entities.NewRelationship(now)
	rel.Type = relType
	rel.FromID = from
	rel.ToID = to
	return rel
}

func insert(t *testing.T, repo *Repository, rel entities.Relationship) int64 {
	t.Helper()
	id, err := repo.Insert(context.Background(), &rel)
	require.NoError(t, err)
	return id
}

func TestNewRepositoryRequiresPath(t *testing.T) {
	_, err := NewRepository(config.SQLiteConfig{})
	assert.Error(t, err)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	// Running again against an existing schema must not fail.
	require.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestInsertAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rel := testRelationship("post_post", 12, 47)
	rel.Author = 5
	rel.Name = "Featured"
	rel.Slug = "featured"
	rel.Content = "edge content"
	rel.Parent = 2
	rel.Order = 3

	id, err := repo.Insert(ctx, &rel)
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, int64(5), got.Author)
	assert.Equal(t, "Featured", got.Name)
	assert.Equal(t, "featured", got.Slug)
	assert.Equal(t, "edge content", got.Content)
	assert.Equal(t, "post_post", got.Type)
	assert.Equal(t, entities.StatusActive, got.Status)
	assert.Equal(t, int64(2), got.Parent)
	assert.Equal(t, int64(3), got.Order)
	assert.Equal(t, int64(12), got.FromID)
	assert.Equal(t, int64(47), got.ToID)
	assert.True(t, got.Created.Equal(rel.Created))
	assert.True(t, got.Modified.Equal(rel.Modified))
}

func TestFindByIDMissing(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.FindByID(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindByIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := insert(t, repo, testRelationship("post_post", 1, 2))
	insert(t, repo, testRelationship("post_post", 3, 4))
	c := insert(t, repo, testRelationship("post_post", 5, 6))

	t.Run("fetches the requested subset", func(t *testing.T) {
		rels, err := repo.FindByIDs(ctx, []int64{a, c})
		require.NoError(t, err)
		require.Len(t, rels, 2)
	})

	t.Run("unknown ids are simply absent", func(t *testing.T) {
		rels, err := repo.FindByIDs(ctx, []int64{a, 999})
		require.NoError(t, err)
		require.Len(t, rels, 1)
		assert.Equal(t, a, rels[0].ID)
	})

	t.Run("empty input is a no-op", func(t *testing.T) {
		rels, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, rels)
	})
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insert(t, repo, testRelationship("post_post", 1, 2))

	rel, err := repo.FindByID(ctx, id)
	require.NoError(t, err)

	rel.Name = "renamed"
	rel.Status = entities.StatusInactive
	affected, err := repo.Update(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, entities.StatusInactive, got.Status)

	t.Run("unknown id affects zero rows", func(t *testing.T) {
		missing := *rel
		missing.ID = 999
		affected, err := repo.Update(ctx, &missing)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insert(t, repo, testRelationship("post_post", 1, 2))
	require.NoError(t, repo.AddMeta(ctx, id, "weight", "10"))

	affected, err := repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Metadata goes with the row.
	values, err := repo.GetMeta(ctx, id, "weight")
	require.NoError(t, err)
	assert.Empty(t, values)

	t.Run("second delete affects zero rows", func(t *testing.T) {
		affected, err := repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, affected)
	})
}

func TestMeta(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id := insert(t, repo, testRelationship("post_post", 1, 2))

	require.NoError(t, repo.AddMeta(ctx, id, "color", "red"))
	require.NoError(t, repo.AddMeta(ctx, id, "color", "blue"))
	require.NoError(t, repo.AddMeta(ctx, id, "weight", "10"))

	t.Run("get returns values in insertion order", func(t *testing.T) {
		values, err := repo.GetMeta(ctx, id, "color")
		require.NoError(t, err)
		assert.Equal(t, []string{"red", "blue"}, values)
	})

	t.Run("list groups by key", func(t *testing.T) {
		meta, err := repo.ListMeta(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{
			"color":  {"red", "blue"},
			"weight": {"10"},
		}, meta)
	})

	t.Run("delete removes all values for a key", func(t *testing.T) {
		require.NoError(t, repo.DeleteMeta(ctx, id, "color"))

		values, err := repo.GetMeta(ctx, id, "color")
		require.NoError(t, err)
		assert.Empty(t, values)

		// Other keys are untouched.
		values, err = repo.GetMeta(ctx, id, "weight")
		require.NoError(t, err)
		assert.Equal(t, []string{"10"}, values)
	})
}
