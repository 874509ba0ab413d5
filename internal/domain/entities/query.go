package entities

import "time"

// DefaultPageSize is the page size applied when a query does not set
// Number. An explicit zero disables the limit entirely.
const DefaultPageSize = 100

// FieldsIDs requests bare relationship ids instead of hydrated
// entities.
const FieldsIDs = "ids"

// OrderClause is one ORDER BY key. Recognized keys are the whitelisted
// column aliases (id, author, type, slug, status, parent, order,
// created, modified, updated, from_id, to_id) plus the positional
// forms relationship__in, from__in, and to__in, which sort results by
// their position in the corresponding id list. Unrecognized keys are
// dropped, not rejected.
type OrderClause struct {
	Key  string `json:"key"`
	Desc bool   `json:"desc"`
}

// MetaCompare selects how a MetaFilter matches.
type MetaCompare string

const (
	MetaEquals   MetaCompare = "="
	MetaNotEqual MetaCompare = "!="
	MetaLike     MetaCompare = "like"
	MetaExists   MetaCompare = "exists"
)

// MetaFilter constrains results to relationships whose metadata
// matches. Filters are ANDed together.
type MetaFilter struct {
	Key     string      `json:"key"`
	Value   string      `json:"value"`
	Compare MetaCompare `json:"compare"`
}

// DateRange bounds the creation timestamp. Zero bounds are open.
type DateRange struct {
	After  time.Time `json:"after"`
	Before time.Time `json:"before"`
}

// IsZero reports whether neither bound is set.
func (d DateRange) IsZero() bool {
	return d.After.IsZero() && d.Before.IsZero()
}

// Query is a declarative relationship query specification. The zero
// value matches everything, ordered by (order, id) ascending, first
// page of DefaultPageSize rows. Every filter left at its zero value
// contributes no clause.
type Query struct {
	// Identity filters.
	ID    int64   `json:"id"`
	In    []int64 `json:"in"`
	NotIn []int64 `json:"not_in"`

	// Author filters.
	Author      int64   `json:"author"`
	AuthorIn    []int64 `json:"author_in"`
	AuthorNotIn []int64 `json:"author_not_in"`

	// Type filters.
	Type      string   `json:"type"`
	TypeIn    []string `json:"type_in"`
	TypeNotIn []string `json:"type_not_in"`

	// Slug filters.
	Slug      string   `json:"slug"`
	SlugIn    []string `json:"slug_in"`
	SlugNotIn []string `json:"slug_not_in"`

	// Status filters.
	Status      string   `json:"status"`
	StatusIn    []string `json:"status_in"`
	StatusNotIn []string `json:"status_not_in"`

	// Parent filters.
	Parent      int64   `json:"parent"`
	ParentIn    []int64 `json:"parent_in"`
	ParentNotIn []int64 `json:"parent_not_in"`

	// Endpoint filters.
	FromID    int64   `json:"from_id"`
	FromIn    []int64 `json:"from_in"`
	FromNotIn []int64 `json:"from_not_in"`
	ToID      int64   `json:"to_id"`
	ToIn      []int64 `json:"to_in"`
	ToNotIn   []int64 `json:"to_not_in"`

	// Search is substring-matched against SearchColumns (default: name
	// and content). A '*' splits the term into segments that must all
	// appear in order. An empty string applies no filter.
	Search        string   `json:"search"`
	SearchColumns []string `json:"search_columns"`

	// Date restricts the creation timestamp.
	Date DateRange `json:"date"`

	// Meta filters against the relationship metadata table.
	Meta []MetaFilter `json:"meta"`

	// Pagination. Number nil means DefaultPageSize; a pointer to zero
	// means unlimited.
	Number *int `json:"number"`
	Offset int  `json:"offset"`

	// Ordering. Empty OrderBy means (order, id). Order is the default
	// direction for clauses that do not set their own; anything other
	// than "DESC" (case-insensitive) means ascending.
	OrderBy []OrderClause `json:"order_by"`
	Order   string        `json:"order"`

	// Fields selects the result shape: "" for hydrated entities,
	// FieldsIDs for bare ids.
	Fields string `json:"fields"`

	// Count requests a scalar count instead of a result set.
	Count bool `json:"count"`

	// NoFoundRows skips the total-count query; pagination metadata then
	// reflects only the returned page.
	NoFoundRows bool `json:"no_found_rows"`

	// NoCachePrime skips batch-priming the entity cache before
	// hydration.
	NoCachePrime bool `json:"-"`
}

// Limit returns the effective page size: DefaultPageSize when Number
// is unset, 0 (unlimited) when explicitly zeroed.
func (q *Query) Limit() int {
	if q.Number == nil {
		return DefaultPageSize
	}
	if *q.Number < 0 {
		return 0
	}
	return *q.Number
}

// Ordering returns the effective ORDER BY clauses with the default
// direction resolved and the default (order, id) ordering applied.
func (q *Query) Ordering() []OrderClause {
	desc := isDesc(q.Order)
	if len(q.OrderBy) == 0 {
		return []OrderClause{{Key: "order", Desc: desc}, {Key: "id", Desc: desc}}
	}
	out := make([]OrderClause, len(q.OrderBy))
	copy(out, q.OrderBy)
	return out
}

func isDesc(order string) bool {
	return order == "DESC" || order == "desc" || order == "Desc"
}
