package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tekno-rank-service/internal/domain"
)

// Router executes queries against the search index first and falls back to
// the relational store on any error. Callers never learn which path served
// them beyond the Source label on the result.
//
// Failover is sequential, never concurrent: racing both stores would double
// load on the survivor during an outage of the other.
type Router struct {
	primary  Backend
	fallback Backend
	timeout  time.Duration
}

// NewRouter builds a router. primary may be nil when no search index is
// configured; fallback must not be nil.
func NewRouter(primary, fallback Backend, timeout time.Duration) *Router {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Router{primary: primary, fallback: fallback, timeout: timeout}
}

// Execute runs the query with per-attempt timeouts. If both backends fail
// it returns domain.ErrBackendUnavailable; partial results are never
// returned.
func (r *Router) Execute(ctx context.Context, q Query) (Result, error) {
	if r.primary != nil {
		res, err := r.attempt(ctx, r.primary, q)
		if err == nil {
			return res, nil
		}
		logFailover(r.primary.Name(), err)
	}

	res, err := r.attempt(ctx, r.fallback, q)
	if err != nil {
		log.Printf("error: %s backend failed, no fallback left: %v", r.fallback.Name(), err)
		return Result{}, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return res, nil
}

// Count routes a count the same way Execute routes a search.
func (r *Router) Count(ctx context.Context, collection string, preds []Predicate) (int, error) {
	if r.primary != nil {
		cctx, cancel := context.WithTimeout(ctx, r.timeout)
		n, err := r.primary.Count(cctx, collection, preds)
		cancel()
		if err == nil {
			return n, nil
		}
		logFailover(r.primary.Name(), err)
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	n, err := r.fallback.Count(cctx, collection, preds)
	if err != nil {
		log.Printf("error: %s backend count failed, no fallback left: %v", r.fallback.Name(), err)
		return 0, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	return n, nil
}

func (r *Router) attempt(ctx context.Context, b Backend, q Query) (Result, error) {
	actx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	res, err := b.Search(actx, q)
	if err != nil {
		return Result{}, err
	}
	res.Source = b.Name()
	return res, nil
}

// logFailover mirrors the operability split: client errors (bad filter,
// missing collection) warn, everything else is an error. The failover
// decision is the same either way.
func logFailover(backend string, err error) {
	var be *BackendError
	if errors.As(err, &be) && be.ClientError() {
		log.Printf("warn: %s backend rejected query (status %d), falling back: %v", backend, be.Status, be.Err)
		return
	}
	log.Printf("error: %s backend failed, falling back: %v", backend, err)
}
