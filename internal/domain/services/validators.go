package services

import (
	"context"
	"fmt"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

// TypeValidator rejects relationships whose type key is not in the
// registry. Registered as a store validator at wiring time so the
// store itself stays registry-agnostic.
type TypeValidator struct {
	registry *entities.Registry
}

// NewTypeValidator creates a TypeValidator for the given registry.
func NewTypeValidator(registry *entities.Registry) *TypeValidator {
	return &TypeValidator{registry: registry}
}

// Validate implements ports.Validator.
func (v *TypeValidator) Validate(_ context.Context, rel *entities.Relationship) error {
	if rel.Type == "" {
		return fmt.Errorf("%w: type is required", entities.ErrInvalidType)
	}
	if !v.registry.HasType(rel.Type) {
		return fmt.Errorf("%w: %q is not registered", entities.ErrInvalidType, rel.Type)
	}
	return nil
}
