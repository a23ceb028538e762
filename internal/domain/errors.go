package domain

import "errors"

var (
	// ErrBackendUnavailable is returned when neither the search index nor
	// the relational fallback could serve a query.
	ErrBackendUnavailable = errors.New("ranking backends unavailable")
	// ErrInvalidScopeKey is returned when a leaderboard scope is requested
	// without its identifying key (e.g. city scope with no city ID).
	ErrInvalidScopeKey = errors.New("missing or invalid scope key")
	// ErrNoEligibleItems is returned when no question survives filtering,
	// even after exclusion relaxation.
	ErrNoEligibleItems = errors.New("no eligible questions")
)
