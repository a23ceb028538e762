// Package postgres implements the relational query backend and the learner
// performance reader.
package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"tekno-rank-service/internal/query"
)

// tables maps logical collections to their relational homes. An unknown
// collection is a caller error, classified the same way the index
// classifies a missing collection.
var tables = map[string]string{
	"questions":   "questions",
	"leaderboard": "leaderboard_entries",
}

// Backend implements query.Backend over Postgres using bun's query builder.
// Columns use the same logical field names as the index documents, so rows
// normalize into hits without a translation table.
type Backend struct {
	db *bun.DB
}

// New wraps an open bun DB.
func New(db *bun.DB) *Backend {
	return &Backend{db: db}
}

func (b *Backend) Name() string { return "relational" }

func (b *Backend) Search(ctx context.Context, q query.Query) (query.Result, error) {
	table, ok := tables[q.Collection]
	if !ok {
		return query.Result{}, &query.BackendError{Backend: "relational", Status: 404, Err: fmt.Errorf("unknown collection %q", q.Collection)}
	}

	sel := b.db.NewSelect().Table(table)
	var err error
	if sel, err = applyPredicates(sel, q.Predicates); err != nil {
		return query.Result{}, err
	}
	for _, s := range q.Sort {
		if s.Desc {
			sel = sel.OrderExpr("? DESC", bun.Ident(s.Field))
		} else {
			sel = sel.OrderExpr("? ASC", bun.Ident(s.Field))
		}
	}
	if q.PerPage > 0 {
		sel = sel.Limit(q.PerPage)
	}

	var rows []map[string]interface{}
	found, err := sel.ScanAndCount(ctx, &rows)
	if err != nil {
		return query.Result{}, &query.BackendError{Backend: "relational", Err: fmt.Errorf("select %s: %w", table, err)}
	}

	hits := make([]query.Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, query.Hit(row))
	}
	return query.Result{Hits: hits, Found: found}, nil
}

func (b *Backend) Count(ctx context.Context, collection string, preds []query.Predicate) (int, error) {
	table, ok := tables[collection]
	if !ok {
		return 0, &query.BackendError{Backend: "relational", Status: 404, Err: fmt.Errorf("unknown collection %q", collection)}
	}

	sel := b.db.NewSelect().Table(table)
	var err error
	if sel, err = applyPredicates(sel, preds); err != nil {
		return 0, err
	}
	n, err := sel.Count(ctx)
	if err != nil {
		return 0, &query.BackendError{Backend: "relational", Err: fmt.Errorf("count %s: %w", table, err)}
	}
	return n, nil
}

func applyPredicates(sel *bun.SelectQuery, preds []query.Predicate) (*bun.SelectQuery, error) {
	for _, p := range preds {
		switch p.Op {
		case query.OpEq:
			sel = sel.Where("? = ?", bun.Ident(p.Field), p.Value)
		case query.OpGt:
			sel = sel.Where("? > ?", bun.Ident(p.Field), p.Value)
		case query.OpGte:
			sel = sel.Where("? >= ?", bun.Ident(p.Field), p.Value)
		case query.OpLte:
			sel = sel.Where("? <= ?", bun.Ident(p.Field), p.Value)
		case query.OpIn:
			sel = sel.Where("? IN (?)", bun.Ident(p.Field), bun.In(p.Value))
		case query.OpNotIn:
			sel = sel.Where("? NOT IN (?)", bun.Ident(p.Field), bun.In(p.Value))
		default:
			return nil, &query.BackendError{Backend: "relational", Status: 400, Err: fmt.Errorf("unsupported operator %q", p.Op)}
		}
	}
	return sel, nil
}
