package entities

import "sort"

// ObjectKind tags which domain entity family an endpoint id belongs to.
// The core engine never dereferences endpoints; kinds exist so callers
// can resolve ids into real objects.
type ObjectKind struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Type describes a registered relationship type and the object kinds
// permitted at each endpoint.
type Type struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	From ObjectKind `json:"from"`
	To   ObjectKind `json:"to"`
}

// StatusInfo pairs a status value with its display label.
type StatusInfo struct {
	ID   Status `json:"id"`
	Name string `json:"name"`
}

// Registry holds the closed sets of relationship types, statuses, and
// object kinds. It is constructed once at startup and passed where
// needed; there is no global instance.
type Registry struct {
	types    map[string]Type
	kinds    map[string]ObjectKind
	statuses []StatusInfo
}

// NewRegistry returns an empty registry carrying only the fixed status
// set.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]Type),
		kinds: make(map[string]ObjectKind),
		statuses: []StatusInfo{
			{ID: StatusActive, Name: "Active"},
			{ID: StatusInactive, Name: "Inactive"},
		},
	}
}

// DefaultRegistry returns a registry seeded with the stock object kinds
// and relationship types.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	post := ObjectKind{ID: "post", Name: "Post"}
	term := ObjectKind{ID: "term", Name: "Term"}
	user := ObjectKind{ID: "user", Name: "User"}
	comment := ObjectKind{ID: "comment", Name: "Comment"}
	for _, k := range []ObjectKind{post, term, user, comment} {
		r.RegisterKind(k)
	}

	r.RegisterType(Type{ID: "post_post", Name: "Posts to Posts", From: post, To: post})
	r.RegisterType(Type{ID: "post_taxonomy_term", Name: "Taxonomy Terms to Posts", From: term, To: post})

	return r
}

// RegisterType adds or replaces a relationship type.
func (r *Registry) RegisterType(t Type) {
	r.types[t.ID] = t
}

// RegisterKind adds or replaces an object kind.
func (r *Registry) RegisterKind(k ObjectKind) {
	r.kinds[k.ID] = k
}

// Type looks up a registered relationship type by id.
func (r *Registry) Type(id string) (Type, bool) {
	t, ok := r.types[id]
	return t, ok
}

// HasType reports whether the given type id is registered.
func (r *Registry) HasType(id string) bool {
	_, ok := r.types[id]
	return ok
}

// Types returns all registered types sorted by id.
func (r *Registry) Types() []Type {
	out := make([]Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Kinds returns all registered object kinds sorted by id.
func (r *Registry) Kinds() []ObjectKind {
	out := make([]ObjectKind, 0, len(r.kinds))
	for _, k := range r.kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Statuses returns the fixed status set.
func (r *Registry) Statuses() []StatusInfo {
	return r.statuses
}
