package ranking

import (
	"context"
	"sort"

	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/query"
)

const (
	defaultLimit = 100
	// leaderboardCollection is the logical collection name both backends
	// serve; the relational backend maps it to its table.
	leaderboardCollection = "leaderboard"
)

// LeaderboardCache memoizes rendered boards for a short TTL. Implementations
// must collapse concurrent computes for the same key.
type LeaderboardCache interface {
	GetOrCompute(ctx context.Context, key string, compute func(context.Context) ([]domain.RankEntry, error)) ([]domain.RankEntry, error)
}

// Engine executes scoped ranking queries through the router. It holds no
// mutable state between requests; every board is recomputed from backend
// data.
type Engine struct {
	router *query.Router
	cache  LeaderboardCache
	band   float64
}

// NewEngine builds an engine. cache may be nil (no memoization); band is
// the around-me value band, defaulting to 500 points.
func NewEngine(router *query.Router, cache LeaderboardCache, band float64) *Engine {
	if band <= 0 {
		band = 500
	}
	return &Engine{router: router, cache: cache, band: band}
}

// Leaderboard returns the scoped board sorted descending by the resolved
// points field, ranks assigned 1-based. Ties break by entity ID so repeat
// calls over unchanged data return identical order.
func (e *Engine) Leaderboard(ctx context.Context, p Params) ([]domain.RankEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if e.cache == nil {
		return e.leaderboard(ctx, p)
	}
	return e.cache.GetOrCompute(ctx, p.cacheKey(), func(ctx context.Context) ([]domain.RankEntry, error) {
		return e.leaderboard(ctx, p)
	})
}

func (e *Engine) leaderboard(ctx context.Context, p Params) ([]domain.RankEntry, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	sortField := p.sortField()

	// The sort key is pushed into the query so a truncated page is already
	// ordered by the right field on both backends.
	res, err := e.router.Execute(ctx, query.Query{
		Collection: leaderboardCollection,
		Predicates: p.predicates(),
		Sort:       []query.Sort{{Field: sortField, Desc: true}},
		PerPage:    limit,
	})
	if err != nil {
		return nil, err
	}

	entries := entriesFromHits(res.Hits, sortField)
	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// sortEntries enforces the deterministic order: score descending, then
// entity ID ascending. The backend already sorted by score; this only
// settles ties, stably.
func sortEntries(entries []domain.RankEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].EntityID < entries[j].EntityID
	})
}

func entriesFromHits(hits []query.Hit, sortField string) []domain.RankEntry {
	entries := make([]domain.RankEntry, 0, len(hits))
	for _, hit := range hits {
		entries = append(entries, EntryFromHit(hit, sortField))
	}
	return entries
}

// EntryFromHit maps a normalized hit to a rank entry, scoring by the
// resolved sort field. Both backends feed the same mapping; the shared
// equivalence test pins that.
func EntryFromHit(hit query.Hit, sortField string) domain.RankEntry {
	totalQuestions := hit.Int("total_questions")
	totalCorrect := hit.Int("total_correct")
	successRate := 0
	if totalQuestions > 0 {
		successRate = int(float64(totalCorrect)/float64(totalQuestions)*100 + 0.5)
	}

	name := hit.Str("full_name")
	if name == "" {
		name = "Anonim"
	}

	return domain.RankEntry{
		EntityID:    hit.Str("student_id"),
		DisplayName: name,
		AvatarURL:   hit.Str("avatar_url"),
		Score:       hit.Float(sortField),
		SecondaryStat: map[string]int{
			"totalQuestions": totalQuestions,
			"totalCorrect":   totalCorrect,
			"totalWrong":     hit.Int("total_wrong"),
			"maxStreak":      hit.Int("max_streak"),
			"currentStreak":  hit.Int("current_streak"),
			"successRate":    successRate,
		},
		Grade:        hit.Int("grade"),
		CityName:     hit.Str("city_name"),
		DistrictName: hit.Str("district_name"),
		SchoolName:   hit.Str("school_name"),
	}
}
