package mocks

import (
	"context"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

// ObserverEvent records one store notification.
type ObserverEvent struct {
	Kind string // "created", "updated", "deleted"
	Old  *entities.Relationship
	Rel  *entities.Relationship
}

// Observer is a mock implementation of ports.Observer that records
// every notification in order.
type Observer struct {
	Events []ObserverEvent
}

// NewObserver creates an empty mock observer.
func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) RelationshipCreated(_ context.Context, rel *entities.Relationship) {
	o.Events = append(o.Events, ObserverEvent{Kind: "created", Rel: rel})
}

func (o *Observer) RelationshipUpdated(_ context.Context, old, updated *entities.Relationship) {
	o.Events = append(o.Events, ObserverEvent{Kind: "updated", Old: old, Rel: updated})
}

func (o *Observer) RelationshipDeleted(_ context.Context, rel *entities.Relationship) {
	o.Events = append(o.Events, ObserverEvent{Kind: "deleted", Rel: rel})
}
