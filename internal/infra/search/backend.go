// Package search implements the query backend over a Typesense index.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"tekno-rank-service/internal/query"
)

// queryBy names the text field Typesense requires per collection. The
// engine always searches with the wildcard term, so these only satisfy the
// API contract.
var queryBy = map[string]string{
	"questions":   "question_text",
	"leaderboard": "full_name",
}

// Backend implements query.Backend over a Typesense cluster.
type Backend struct {
	client *typesense.Client
}

// New connects a backend to the given Typesense server.
func New(serverURL, apiKey string, timeout time.Duration) *Backend {
	client := typesense.NewClient(
		typesense.WithServer(serverURL),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(timeout),
	)
	return &Backend{client: client}
}

func (b *Backend) Name() string { return "index" }

func (b *Backend) Search(ctx context.Context, q query.Query) (query.Result, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String(queryByField(q.Collection)),
	}
	if filter := CompileFilter(q.Predicates); filter != "" {
		params.FilterBy = pointer.String(filter)
	}
	if sortBy := compileSort(q.Sort); sortBy != "" {
		params.SortBy = pointer.String(sortBy)
	}
	if q.PerPage > 0 {
		params.PerPage = pointer.Int(q.PerPage)
	}

	res, err := b.client.Collection(q.Collection).Documents().Search(ctx, params)
	if err != nil {
		return query.Result{}, wrapErr(err)
	}

	out := query.Result{}
	if res.Found != nil {
		out.Found = *res.Found
	}
	if res.Hits != nil {
		out.Hits = make([]query.Hit, 0, len(*res.Hits))
		for _, hit := range *res.Hits {
			if hit.Document == nil {
				continue
			}
			out.Hits = append(out.Hits, normalize(*hit.Document))
		}
	}
	return out, nil
}

func (b *Backend) Count(ctx context.Context, collection string, preds []query.Predicate) (int, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String(queryByField(collection)),
		PerPage: pointer.Int(1),
	}
	if filter := CompileFilter(preds); filter != "" {
		params.FilterBy = pointer.String(filter)
	}

	res, err := b.client.Collection(collection).Documents().Search(ctx, params)
	if err != nil {
		return 0, wrapErr(err)
	}
	if res.Found == nil {
		return 0, nil
	}
	return *res.Found, nil
}

func queryByField(collection string) string {
	if f, ok := queryBy[collection]; ok {
		return f
	}
	return "id"
}

// normalize maps a raw document to the shared logical field names. The
// question index historically carries both question_id and id; the logical
// key is always id.
func normalize(doc map[string]any) query.Hit {
	hit := make(query.Hit, len(doc))
	for k, v := range doc {
		hit[k] = v
	}
	if qid, ok := doc["question_id"].(string); ok && qid != "" {
		hit["id"] = qid
	}
	return hit
}

// CompileFilter renders predicates in Typesense filter_by syntax, joined
// with boolean AND. Exported so the adapter-equivalence test can assert the
// exact dialect.
func CompileFilter(preds []query.Predicate) string {
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case query.OpEq:
			parts = append(parts, fmt.Sprintf("%s:=%v", p.Field, p.Value))
		case query.OpGt:
			parts = append(parts, fmt.Sprintf("%s:>%v", p.Field, p.Value))
		case query.OpGte:
			parts = append(parts, fmt.Sprintf("%s:>=%v", p.Field, p.Value))
		case query.OpLte:
			parts = append(parts, fmt.Sprintf("%s:<=%v", p.Field, p.Value))
		case query.OpIn:
			parts = append(parts, fmt.Sprintf("%s:[%s]", p.Field, strings.Join(stringValues(p.Value), ",")))
		case query.OpNotIn:
			parts = append(parts, fmt.Sprintf("%s:!=[%s]", p.Field, strings.Join(stringValues(p.Value), ",")))
		}
	}
	return strings.Join(parts, " && ")
}

func compileSort(keys []query.Sort) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		dir := "asc"
		if k.Desc {
			dir = "desc"
		}
		parts = append(parts, k.Field+":"+dir)
	}
	return strings.Join(parts, ",")
}

func stringValues(v any) []string {
	if list, ok := v.([]string); ok {
		return list
	}
	return nil
}

// wrapErr translates driver errors into query.BackendError so the router
// can split client errors from outages. Non-HTTP failures (DNS, refused
// connection) carry status 0 and read as outages.
func wrapErr(err error) error {
	var httpErr *typesense.HTTPError
	if errors.As(err, &httpErr) {
		return &query.BackendError{Backend: "index", Status: httpErr.Status, Err: err}
	}
	return &query.BackendError{Backend: "index", Err: err}
}
