package ports

import (
	"context"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

// Validator is an extension point run after sanitization on every
// create and update. Returning an error aborts the write.
type Validator interface {
	Validate(ctx context.Context, rel *entities.Relationship) error
}

// Observer receives mutation notifications from the store. Observers
// are called synchronously, in registration order, after the write and
// cache maintenance have completed.
type Observer interface {
	RelationshipCreated(ctx context.Context, rel *entities.Relationship)
	RelationshipUpdated(ctx context.Context, old, updated *entities.Relationship)
	RelationshipDeleted(ctx context.Context, rel *entities.Relationship)
}
