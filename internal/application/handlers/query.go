package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/services"
)

// QueryHandler handles relationship list and count operations.
type QueryHandler struct {
	engine *services.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine *services.Engine) *QueryHandler {
	return &QueryHandler{engine: engine}
}

// ListRequest is the CLI-facing query shape. Zero values mean "no
// filter".
type ListRequest struct {
	IDs      []int64
	Type     string
	Status   string
	Slug     string
	Parent   int64
	Author   int64
	FromIn   []int64
	ToIn     []int64
	Search   string
	Number   int // 0 means default page size, negative means unlimited
	Page     int // 1-based; combined with Number into an offset
	OrderBy  string
	Order    string
	IDsOnly  bool
	NoTotals bool
}

// HandleList translates the request into a query spec and runs it.
func (h *QueryHandler) HandleList(ctx context.Context, req ListRequest) (*services.Result, error) {
	q, err := buildQuery(req)
	if err != nil {
		return nil, err
	}
	return h.engine.Query(ctx, q)
}

// HandleCount returns only the number of matching relationships.
func (h *QueryHandler) HandleCount(ctx context.Context, req ListRequest) (int64, error) {
	q, err := buildQuery(req)
	if err != nil {
		return 0, err
	}
	return h.engine.Count(ctx, q)
}

func buildQuery(req ListRequest) (entities.Query, error) {
	q := entities.Query{
		In:          req.IDs,
		Type:        req.Type,
		Status:      req.Status,
		Slug:        req.Slug,
		Parent:      req.Parent,
		Author:      req.Author,
		FromIn:      req.FromIn,
		ToIn:        req.ToIn,
		Search:      req.Search,
		Order:       req.Order,
		NoFoundRows: req.NoTotals,
	}

	if req.IDsOnly {
		q.Fields = entities.FieldsIDs
	}

	if req.Number != 0 {
		n := req.Number
		if n < 0 {
			n = 0 // unlimited
		}
		q.Number = &n
	}
	if req.Page > 1 {
		limit := q.Limit()
		if limit == 0 {
			return entities.Query{}, fmt.Errorf("page %d requires a page size", req.Page)
		}
		q.Offset = (req.Page - 1) * limit
	}

	if req.OrderBy != "" {
		desc := strings.EqualFold(req.Order, "DESC")
		for _, key := range strings.Split(req.OrderBy, ",") {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			q.OrderBy = append(q.OrderBy, entities.OrderClause{Key: key, Desc: desc})
		}
	}

	return q, nil
}
