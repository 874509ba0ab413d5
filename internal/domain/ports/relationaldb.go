package ports

import (
	"context"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

// RelationshipDB is the persistence boundary for relationship rows and
// their metadata. The connection is an injected dependency so the
// store and query engine are testable against an in-memory database.
type RelationshipDB interface {
	// EnsureSchema creates the tables and indexes if they don't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// Insert adds a new row and returns its assigned id.
	Insert(ctx context.Context, rel *entities.Relationship) (int64, error)

	// FindByID fetches a single relationship. Returns (nil, nil) when
	// the id does not resolve to a row.
	FindByID(ctx context.Context, id int64) (*entities.Relationship, error)

	// FindByIDs batch-fetches the given ids in one query. Missing ids
	// are simply absent from the result.
	FindByIDs(ctx context.Context, ids []int64) ([]*entities.Relationship, error)

	// Update writes every writable column of rel, keyed by rel.ID, and
	// reports the number of rows affected. Zero affected rows without
	// an error is a valid outcome (identical values).
	Update(ctx context.Context, rel *entities.Relationship) (int64, error)

	// Delete removes a row and reports the number of rows affected.
	Delete(ctx context.Context, id int64) (int64, error)

	// SelectIDs runs the generated query and returns matching ids in
	// query order.
	SelectIDs(ctx context.Context, q *entities.Query) ([]int64, error)

	// CountRows counts rows matching the query's filters, ignoring
	// pagination.
	CountRows(ctx context.Context, q *entities.Query) (int64, error)

	// Metadata operations.

	// AddMeta appends a key/value pair for a relationship.
	AddMeta(ctx context.Context, relationshipID int64, key, value string) error

	// GetMeta returns all values stored under key for a relationship.
	GetMeta(ctx context.Context, relationshipID int64, key string) ([]string, error)

	// DeleteMeta removes all values stored under key for a relationship.
	DeleteMeta(ctx context.Context, relationshipID int64, key string) error

	// ListMeta returns all metadata for a relationship, keyed by
	// meta key.
	ListMeta(ctx context.Context, relationshipID int64) (map[string][]string, error)
}
