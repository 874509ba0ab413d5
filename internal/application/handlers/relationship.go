// Package handlers sits between the CLI and the domain services,
// owning request parsing and translation. Capability checks, output
// rendering, and routing stay in the callers.
package handlers

import (
	"context"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/services"
)

// RelationshipHandler handles single-relationship operations.
type RelationshipHandler struct {
	store    *services.Store
	registry *entities.Registry
}

// NewRelationshipHandler creates a new RelationshipHandler.
func NewRelationshipHandler(store *services.Store, registry *entities.Registry) *RelationshipHandler {
	return &RelationshipHandler{store: store, registry: registry}
}

// CreateRequest carries the writable fields for a new relationship.
type CreateRequest struct {
	Type    string
	FromID  int64
	ToID    int64
	Name    string
	Slug    string
	Content string
	Status  string
	Parent  int64
	Order   int64
	Author  int64
}

// HandleCreate creates a new relationship.
func (h *RelationshipHandler) HandleCreate(ctx context.Context, req CreateRequest) (*entities.Relationship, error) {
	f := entities.Fields{
		Type:   &req.Type,
		FromID: &req.FromID,
		ToID:   &req.ToID,
		Parent: &req.Parent,
		Order:  &req.Order,
		Author: &req.Author,
	}
	if req.Name != "" {
		f.Name = &req.Name
	}
	if req.Slug != "" {
		f.Slug = &req.Slug
	}
	if req.Content != "" {
		f.Content = &req.Content
	}
	if req.Status != "" {
		f.Status = &req.Status
	}
	return h.store.Create(ctx, f)
}

// HandleGet fetches a relationship by id.
func (h *RelationshipHandler) HandleGet(ctx context.Context, id int64) (*entities.Relationship, error) {
	return h.store.Get(ctx, id)
}

// UpdateRequest carries optional field changes; nil means "leave
// as-is".
type UpdateRequest struct {
	Name    *string
	Slug    *string
	Content *string
	Type    *string
	Status  *string
	Parent  *int64
	Order   *int64
	FromID  *int64
	ToID    *int64
}

// HandleUpdate applies a partial update. The bool reports whether
// anything actually changed.
func (h *RelationshipHandler) HandleUpdate(ctx context.Context, id int64, req UpdateRequest) (*entities.Relationship, bool, error) {
	f := entities.Fields{
		Name:    req.Name,
		Slug:    req.Slug,
		Content: req.Content,
		Type:    req.Type,
		Status:  req.Status,
		Parent:  req.Parent,
		Order:   req.Order,
		FromID:  req.FromID,
		ToID:    req.ToID,
	}
	return h.store.Update(ctx, id, f)
}

// HandleSetStatus toggles a relationship's status.
func (h *RelationshipHandler) HandleSetStatus(ctx context.Context, id int64, status string) (*entities.Relationship, bool, error) {
	return h.store.SetStatus(ctx, id, entities.Status(status))
}

// HandleDelete removes a relationship.
func (h *RelationshipHandler) HandleDelete(ctx context.Context, id int64) error {
	return h.store.Delete(ctx, id)
}

// Registry exposes the type/status/kind registry for display.
func (h *RelationshipHandler) Registry() *entities.Registry {
	return h.registry
}

// Metadata operations.

func (h *RelationshipHandler) HandleAddMeta(ctx context.Context, id int64, key, value string) error {
	return h.store.AddMeta(ctx, id, key, value)
}

func (h *RelationshipHandler) HandleGetMeta(ctx context.Context, id int64, key string) ([]string, error) {
	return h.store.GetMeta(ctx, id, key)
}

func (h *RelationshipHandler) HandleDeleteMeta(ctx context.Context, id int64, key string) error {
	return h.store.DeleteMeta(ctx, id, key)
}

func (h *RelationshipHandler) HandleListMeta(ctx context.Context, id int64) (map[string][]string, error) {
	return h.store.ListMeta(ctx, id)
}
