package sqlite

import (
	"fmt"
	"strings"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

// orderByColumns whitelists the keys a query may order by. Keys outside
// the map are dropped from the ORDER BY clause rather than rejected.
var orderByColumns = map[string]string{
	"id":       "id",
	"author":   "author",
	"type":     "type",
	"slug":     "slug",
	"status":   "status",
	"parent":   "parent",
	"order":    `"order"`,
	"created":  "created",
	"modified": "modified",
	"updated":  "updated",
	"from_id":  "from_id",
	"to_id":    "to_id",
}

// searchableColumns is the allowed set for free-text search.
var searchableColumns = []string{"name", "content"}

// buildSelectIDs generates the id-list query for a spec: WHERE from the
// present filters only, ORDER BY through the whitelist, LIMIT/OFFSET
// when a page size applies.
func buildSelectIDs(q *entities.Query) (string, []any) {
	where, args := buildWhere(q)

	var b strings.Builder
	b.WriteString(`SELECT id FROM relationships`)
	b.WriteString(where)

	if orderBy := buildOrderBy(q); orderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(orderBy)
	}

	if limit := q.Limit(); limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
		if q.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", q.Offset)
		}
	}

	return b.String(), args
}

// buildCount generates the scalar count query: same WHERE, no ordering
// or pagination.
func buildCount(q *entities.Query) (string, []any) {
	where, args := buildWhere(q)
	return `SELECT COUNT(*) FROM relationships` + where, args
}

// buildWhere ANDs together a clause for every filter present in the
// spec. Absent filters contribute nothing; an empty spec yields an
// empty string.
func buildWhere(q *entities.Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(clause string, a ...any) {
		clauses = append(clauses, clause)
		args = append(args, a...)
	}

	if q.ID != 0 {
		add("id = ?", q.ID)
	}
	addInt64In(&clauses, &args, "id", q.In, false)
	addInt64In(&clauses, &args, "id", q.NotIn, true)

	if q.Author != 0 {
		add("author = ?", q.Author)
	}
	addInt64In(&clauses, &args, "author", q.AuthorIn, false)
	addInt64In(&clauses, &args, "author", q.AuthorNotIn, true)

	if q.Type != "" {
		add("type = ?", q.Type)
	}
	addStringIn(&clauses, &args, "type", q.TypeIn, false)
	addStringIn(&clauses, &args, "type", q.TypeNotIn, true)

	if q.Slug != "" {
		add("slug = ?", q.Slug)
	}
	addStringIn(&clauses, &args, "slug", q.SlugIn, false)
	addStringIn(&clauses, &args, "slug", q.SlugNotIn, true)

	if q.Status != "" {
		add("status = ?", q.Status)
	}
	addStringIn(&clauses, &args, "status", q.StatusIn, false)
	addStringIn(&clauses, &args, "status", q.StatusNotIn, true)

	if q.Parent != 0 {
		add("parent = ?", q.Parent)
	}
	addInt64In(&clauses, &args, "parent", q.ParentIn, false)
	addInt64In(&clauses, &args, "parent", q.ParentNotIn, true)

	if q.FromID != 0 {
		add("from_id = ?", q.FromID)
	}
	addInt64In(&clauses, &args, "from_id", q.FromIn, false)
	addInt64In(&clauses, &args, "from_id", q.FromNotIn, true)

	if q.ToID != 0 {
		add("to_id = ?", q.ToID)
	}
	addInt64In(&clauses, &args, "to_id", q.ToIn, false)
	addInt64In(&clauses, &args, "to_id", q.ToNotIn, true)

	// Falsy search strings apply no filter.
	if q.Search != "" {
		clause, a := buildSearch(q.Search, q.SearchColumns)
		add(clause, a...)
	}

	if !q.Date.IsZero() {
		if !q.Date.After.IsZero() {
			add("created >= ?", formatTime(q.Date.After))
		}
		if !q.Date.Before.IsZero() {
			add("created <= ?", formatTime(q.Date.Before))
		}
	}

	for _, m := range q.Meta {
		clause, a := buildMeta(m)
		add(clause, a...)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// buildSearch produces a multi-column LIKE clause. A '*' in the term is
// a multi-segment wildcard: "foo*bar" requires "foo", anything, then
// "bar" as a single pattern.
func buildSearch(term string, columns []string) (string, []any) {
	cols := intersectColumns(columns, searchableColumns)
	if len(cols) == 0 {
		cols = searchableColumns
	}

	segments := strings.Split(term, "*")
	for i, s := range segments {
		segments[i] = escapeLike(s)
	}
	pattern := "%" + strings.Join(segments, "%") + "%"

	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = col + ` LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// buildMeta produces an EXISTS subquery against the metadata table.
func buildMeta(m entities.MetaFilter) (string, []any) {
	const sub = `EXISTS (SELECT 1 FROM relationship_meta m WHERE m.relationship_id = relationships.id AND m.meta_key = ?`

	switch m.Compare {
	case entities.MetaExists:
		return sub + `)`, []any{m.Key}
	case entities.MetaNotEqual:
		return sub + ` AND m.meta_value != ?)`, []any{m.Key, m.Value}
	case entities.MetaLike:
		return sub + ` AND m.meta_value LIKE ? ESCAPE '\')`, []any{m.Key, "%" + escapeLike(m.Value) + "%"}
	default:
		return sub + ` AND m.meta_value = ?)`, []any{m.Key, m.Value}
	}
}

// buildOrderBy maps each requested key through the column whitelist,
// dropping unknown keys. The positional __in keys sort by position in
// the caller-supplied id list; their direction is the list itself.
func buildOrderBy(q *entities.Query) string {
	var parts []string
	for _, clause := range q.Ordering() {
		switch clause.Key {
		case "relationship__in":
			if expr := positionalOrder("id", q.In); expr != "" {
				parts = append(parts, expr)
			}
		case "from__in":
			if expr := positionalOrder("from_id", q.FromIn); expr != "" {
				parts = append(parts, expr)
			}
		case "to__in":
			if expr := positionalOrder("to_id", q.ToIn); expr != "" {
				parts = append(parts, expr)
			}
		default:
			col, ok := orderByColumns[clause.Key]
			if !ok {
				continue
			}
			dir := " ASC"
			if clause.Desc {
				dir = " DESC"
			}
			parts = append(parts, col+dir)
		}
	}
	return strings.Join(parts, ", ")
}

// positionalOrder emits a CASE expression equivalent to MySQL's
// FIELD(), sorting rows by their position in ids.
func positionalOrder(column string, ids []int64) string {
	if len(ids) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, id := range ids {
		fmt.Fprintf(&b, " WHEN %d THEN %d", id, i)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(ids))
	return b.String()
}

func addInt64In(clauses *[]string, args *[]any, column string, ids []int64, negate bool) {
	if len(ids) == 0 {
		return
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	*clauses = append(*clauses, fmt.Sprintf("%s %s (%s)", column, op, placeholders))
	for _, id := range ids {
		*args = append(*args, id)
	}
}

func addStringIn(clauses *[]string, args *[]any, column string, values []string, negate bool) {
	if len(values) == 0 {
		return
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	op := "IN"
	if negate {
		op = "NOT IN"
	}
	*clauses = append(*clauses, fmt.Sprintf("%s %s (%s)", column, op, placeholders))
	for _, v := range values {
		*args = append(*args, v)
	}
}

// escapeLike escapes LIKE metacharacters so user input matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// intersectColumns keeps the requested columns that appear in allowed,
// preserving request order.
func intersectColumns(requested, allowed []string) []string {
	var out []string
	for _, col := range requested {
		for _, a := range allowed {
			if col == a {
				out = append(out, col)
				break
			}
		}
	}
	return out
}
