// Package memory provides an in-process query backend with real predicate
// and sort evaluation. It backs unit tests and lets the server run without
// Typesense or Postgres configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"tekno-rank-service/internal/query"
)

// Backend implements query.Backend over seeded fixture collections.
type Backend struct {
	name string

	mu          sync.RWMutex
	collections map[string][]query.Hit
}

// NewBackend builds an empty backend labeled with the given source name.
func NewBackend(name string) *Backend {
	return &Backend{
		name:        name,
		collections: make(map[string][]query.Hit),
	}
}

func (b *Backend) Name() string { return b.name }

// Seed replaces a collection's documents.
func (b *Backend) Seed(collection string, hits []query.Hit) {
	b.mu.Lock()
	defer b.mu.Unlock()
	copied := make([]query.Hit, len(hits))
	copy(copied, hits)
	b.collections[collection] = copied
}

func (b *Backend) Search(_ context.Context, q query.Query) (query.Result, error) {
	b.mu.RLock()
	docs := b.collections[q.Collection]
	b.mu.RUnlock()

	matched := make([]query.Hit, 0, len(docs))
	for _, doc := range docs {
		if matchesAll(doc, q.Predicates) {
			matched = append(matched, doc)
		}
	}

	sortHits(matched, q.Sort)

	found := len(matched)
	if q.PerPage > 0 && len(matched) > q.PerPage {
		matched = matched[:q.PerPage]
	}
	return query.Result{Hits: matched, Found: found}, nil
}

func (b *Backend) Count(_ context.Context, collection string, preds []query.Predicate) (int, error) {
	b.mu.RLock()
	docs := b.collections[collection]
	b.mu.RUnlock()

	n := 0
	for _, doc := range docs {
		if matchesAll(doc, preds) {
			n++
		}
	}
	return n, nil
}

func matchesAll(doc query.Hit, preds []query.Predicate) bool {
	for _, p := range preds {
		if !matches(doc, p) {
			return false
		}
	}
	return true
}

func matches(doc query.Hit, p query.Predicate) bool {
	switch p.Op {
	case query.OpEq:
		if s, ok := p.Value.(string); ok {
			return doc.Str(p.Field) == s
		}
		return doc.Float(p.Field) == toFloat(p.Value)
	case query.OpGt:
		return doc.Float(p.Field) > toFloat(p.Value)
	case query.OpGte:
		return doc.Float(p.Field) >= toFloat(p.Value)
	case query.OpLte:
		return doc.Float(p.Field) <= toFloat(p.Value)
	case query.OpIn:
		return containsStr(p.Value, doc.Str(p.Field))
	case query.OpNotIn:
		return !containsStr(p.Value, doc.Str(p.Field))
	}
	return false
}

func containsStr(values any, target string) bool {
	list, ok := values.([]string)
	if !ok {
		return false
	}
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func sortHits(hits []query.Hit, keys []query.Sort) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(hits, func(i, j int) bool {
		for _, k := range keys {
			var less, greater bool
			if _, isStr := hits[i][k.Field].(string); isStr {
				a, b := hits[i].Str(k.Field), hits[j].Str(k.Field)
				less, greater = a < b, a > b
			} else {
				a, b := hits[i].Float(k.Field), hits[j].Float(k.Field)
				less, greater = a < b, a > b
			}
			if !less && !greater {
				continue
			}
			if k.Desc {
				return greater
			}
			return less
		}
		return false
	})
}
