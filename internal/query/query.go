// Package query defines a backend-agnostic query descriptor and the router
// that executes it against the search index with a transparent relational
// fallback. Callers express filters once as predicates; each backend
// compiles them to its own dialect at the edge.
package query

import (
	"context"
	"fmt"
)

// Op is a predicate operator supported by both backend dialects.
type Op string

const (
	OpEq    Op = "eq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLte   Op = "lte"
	OpIn    Op = "in"
	OpNotIn Op = "not_in"
)

// Predicate is one typed field filter. Predicates in a query compose with
// logical AND.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality predicate.
func Eq(field string, value any) Predicate { return Predicate{Field: field, Op: OpEq, Value: value} }

// Gt builds a strictly-greater predicate.
func Gt(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpGt, Value: value}
}

// Gte builds a greater-or-equal predicate.
func Gte(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpGte, Value: value}
}

// Lte builds a less-or-equal predicate.
func Lte(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpLte, Value: value}
}

// In builds a membership predicate over string values.
func In(field string, values []string) Predicate {
	return Predicate{Field: field, Op: OpIn, Value: values}
}

// NotIn builds an anti-membership predicate over string values.
func NotIn(field string, values []string) Predicate {
	return Predicate{Field: field, Op: OpNotIn, Value: values}
}

// Sort orders results by one field.
type Sort struct {
	Field string
	Desc  bool
}

// Query is a logical read against one collection, portable across backends.
type Query struct {
	Collection string
	Predicates []Predicate
	Sort       []Sort
	PerPage    int
}

// Hit is one normalized result row: logical field names mapped to values.
// Both backends must produce identical hits for equivalent source data.
type Hit map[string]any

// Str reads a string field, tolerating absence.
func (h Hit) Str(field string) string {
	if v, ok := h[field].(string); ok {
		return v
	}
	return ""
}

// Int reads a numeric field as int, tolerating absence and the numeric
// types each driver happens to decode into.
func (h Hit) Int(field string) int {
	switch v := h[field].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	}
	return 0
}

// Float reads a numeric field as float64, tolerating absence.
func (h Hit) Float(field string) float64 {
	switch v := h[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Result is the normalized outcome of one routed query.
type Result struct {
	// Source names the backend that served the request: "index" or
	// "relational".
	Source string
	Hits   []Hit
	// Found is the backend's total match count for the predicates, which
	// can exceed len(Hits) when PerPage truncates.
	Found int
}

// Backend serves logical queries from one concrete store.
type Backend interface {
	// Name reports the source label recorded on results.
	Name() string
	// Search executes the query and returns normalized hits.
	Search(ctx context.Context, q Query) (Result, error)
	// Count returns the total number of rows matching the predicates,
	// without fetching them.
	Count(ctx context.Context, collection string, preds []Predicate) (int, error)
}

// BackendError wraps a backend failure with its HTTP-equivalent status so
// the router can pick a log level. It never crosses the router upward.
type BackendError struct {
	Backend string
	Status  int
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend: status %d: %v", e.Backend, e.Status, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ClientError reports whether the failure was a request problem (malformed
// filter, unknown collection) rather than a backend outage.
func (e *BackendError) ClientError() bool {
	return e.Status == 400 || e.Status == 404
}
