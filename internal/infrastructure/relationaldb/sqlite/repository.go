// Package sqlite provides a SQLite implementation of the RelationshipDB
// interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/infrastructure/config"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is how timestamps are persisted. Lexicographic order
// matches chronological order, which the date-range clauses rely on.
const timeLayout = "2006-01-02 15:04:05"

// Repository implements ports.RelationshipDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Relationship edges
	CREATE TABLE IF NOT EXISTS relationships (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		author INTEGER NOT NULL DEFAULT 0,
		name TEXT NOT NULL DEFAULT '',
		slug TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'active',
		parent INTEGER NOT NULL DEFAULT 0,
		"order" INTEGER NOT NULL DEFAULT 0,
		created TEXT NOT NULL DEFAULT '',
		modified TEXT NOT NULL DEFAULT '',
		updated TEXT NOT NULL DEFAULT '',
		from_id INTEGER NOT NULL DEFAULT 0,
		to_id INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_slug ON relationships(slug);
	CREATE INDEX IF NOT EXISTS idx_relationships_type_status_created ON relationships(type, status, created);
	CREATE INDEX IF NOT EXISTS idx_relationships_parent ON relationships(parent);
	CREATE INDEX IF NOT EXISTS idx_relationships_author ON relationships(author);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_id);

	-- Arbitrary extension metadata, one row per value
	CREATE TABLE IF NOT EXISTS relationship_meta (
		meta_id INTEGER PRIMARY KEY AUTOINCREMENT,
		relationship_id INTEGER NOT NULL,
		meta_key TEXT NOT NULL,
		meta_value TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_relationship_meta_key ON relationship_meta(relationship_id, meta_key);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

const relationshipColumns = `id, author, name, slug, content, type, status, parent, "order", created, modified, updated, from_id, to_id`

// Insert adds a new relationship row and returns its assigned id.
func (r *Repository) Insert(ctx context.Context, rel *entities.Relationship) (int64, error) {
	query := `
		INSERT INTO relationships (author, name, slug, content, type, status, parent, "order", created, modified, updated, from_id, to_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		rel.Author, rel.Name, rel.Slug, rel.Content, rel.Type, string(rel.Status),
		rel.Parent, rel.Order,
		formatTime(rel.Created), formatTime(rel.Modified), formatTime(rel.Updated),
		rel.FromID, rel.ToID,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting relationship: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	return id, nil
}

// FindByID fetches a single relationship, or (nil, nil) when absent.
func (r *Repository) FindByID(ctx context.Context, id int64) (*entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE id = ? LIMIT 1`

	rel, err := scanRelationship(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding relationship by id: %w", err)
	}
	return rel, nil
}

// FindByIDs batch-fetches the given ids in one query.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]*entities.Relationship, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + relationshipColumns + ` FROM relationships WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("finding relationships by ids: %w", err)
	}
	defer rows.Close()

	var result []*entities.Relationship
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		result = append(result, rel)
	}
	return result, rows.Err()
}

// Update writes every writable column of rel, keyed by rel.ID.
func (r *Repository) Update(ctx context.Context, rel *entities.Relationship) (int64, error) {
	query := `
		UPDATE relationships
		SET author = ?, name = ?, slug = ?, content = ?, type = ?, status = ?,
			parent = ?, "order" = ?, created = ?, modified = ?, updated = ?,
			from_id = ?, to_id = ?
		WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query,
		rel.Author, rel.Name, rel.Slug, rel.Content, rel.Type, string(rel.Status),
		rel.Parent, rel.Order,
		formatTime(rel.Created), formatTime(rel.Modified), formatTime(rel.Updated),
		rel.FromID, rel.ToID,
		rel.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("updating relationship: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a relationship row and its metadata.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("deleting relationship: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM relationship_meta WHERE relationship_id = ?`, id); err != nil {
			return affected, fmt.Errorf("deleting relationship meta: %w", err)
		}
	}
	return affected, nil
}

// SelectIDs runs the generated query and returns matching ids in query
// order.
func (r *Repository) SelectIDs(ctx context.Context, q *entities.Query) ([]int64, error) {
	query, args := buildSelectIDs(q)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("selecting relationship ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning relationship id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountRows counts rows matching the query's filters, ignoring
// pagination.
func (r *Repository) CountRows(ctx context.Context, q *entities.Query) (int64, error) {
	query, args := buildCount(q)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

// AddMeta appends a key/value pair for a relationship.
func (r *Repository) AddMeta(ctx context.Context, relationshipID int64, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO relationship_meta (relationship_id, meta_key, meta_value) VALUES (?, ?, ?)`,
		relationshipID, key, value,
	)
	if err != nil {
		return fmt.Errorf("adding relationship meta: %w", err)
	}
	return nil
}

// GetMeta returns all values stored under key for a relationship.
func (r *Repository) GetMeta(ctx context.Context, relationshipID int64, key string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT meta_value FROM relationship_meta WHERE relationship_id = ? AND meta_key = ? ORDER BY meta_id`,
		relationshipID, key,
	)
	if err != nil {
		return nil, fmt.Errorf("getting relationship meta: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning meta value: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DeleteMeta removes all values stored under key for a relationship.
func (r *Repository) DeleteMeta(ctx context.Context, relationshipID int64, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM relationship_meta WHERE relationship_id = ? AND meta_key = ?`,
		relationshipID, key,
	)
	if err != nil {
		return fmt.Errorf("deleting relationship meta: %w", err)
	}
	return nil
}

// ListMeta returns all metadata for a relationship, keyed by meta key.
func (r *Repository) ListMeta(ctx context.Context, relationshipID int64) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT meta_key, meta_value FROM relationship_meta WHERE relationship_id = ? ORDER BY meta_id`,
		relationshipID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing relationship meta: %w", err)
	}
	defer rows.Close()

	meta := make(map[string][]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning meta row: %w", err)
		}
		meta[k] = append(meta[k], v)
	}
	return meta, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRelationship(s scanner) (*entities.Relationship, error) {
	var (
		rel                        entities.Relationship
		status                     string
		created, modified, updated string
	)

	err := s.Scan(
		&rel.ID, &rel.Author, &rel.Name, &rel.Slug, &rel.Content, &rel.Type, &status,
		&rel.Parent, &rel.Order, &created, &modified, &updated, &rel.FromID, &rel.ToID,
	)
	if err != nil {
		return nil, err
	}

	rel.Status = entities.Status(status)
	if rel.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if rel.Modified, err = parseTime(modified); err != nil {
		return nil, err
	}
	if rel.Updated, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &rel, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing stored timestamp %q: %w", s, err)
	}
	return t, nil
}
