package ranking

import (
	"context"

	"tekno-rank-service/internal/domain"
	"tekno-rank-service/internal/query"
)

// bandPageSize bounds the around-me band fetch, matching the historical
// page of 50 nearest entries.
const bandPageSize = 50

// AroundMe returns a window of up to 2*rng+1 entries centered on the
// entity, with ranks numbered by global position, not window position.
//
// The fetch is banded to ±band points around the entity's own value for
// cost control; the entity's global rank is anchored exactly with a
// count-above query, so the numbers shown are true even though only a
// slice is fetched. An entity with no presence in scope yields an empty
// board, not an error.
func (e *Engine) AroundMe(ctx context.Context, entityID string, p Params, rng int) ([]domain.RankEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if rng < 0 {
		rng = 0
	}
	sortField := p.sortField()
	scopePreds := p.predicates()

	// Resolve the entity's own sort value inside the scope.
	self, err := e.router.Execute(ctx, query.Query{
		Collection: leaderboardCollection,
		Predicates: append(append([]query.Predicate{}, scopePreds...), query.Eq("student_id", entityID)),
		PerPage:    1,
	})
	if err != nil {
		return nil, err
	}
	if len(self.Hits) == 0 {
		return []domain.RankEntry{}, nil
	}
	myValue := self.Hits[0].Float(sortField)

	// Everyone strictly above the band's center, scope-wide. Entities tied
	// with the center all fall inside the band, so ties are settled there.
	countAbove, err := e.router.Count(ctx, leaderboardCollection,
		append(append([]query.Predicate{}, scopePreds...), query.Gt(sortField, myValue)))
	if err != nil {
		return nil, err
	}

	lower := myValue - e.band
	if lower < 0 {
		lower = 0
	}
	bandPreds := append(append([]query.Predicate{}, scopePreds...),
		query.Gte(sortField, lower),
		query.Lte(sortField, myValue+e.band),
	)
	res, err := e.router.Execute(ctx, query.Query{
		Collection: leaderboardCollection,
		Predicates: bandPreds,
		Sort:       []query.Sort{{Field: sortField, Desc: true}},
		PerPage:    bandPageSize,
	})
	if err != nil {
		return nil, err
	}

	entries := entriesFromHits(res.Hits, sortField)
	sortEntries(entries)

	myIndex := -1
	for i := range entries {
		if entries[i].EntityID == entityID {
			entries[i].IsMe = true
			myIndex = i
			break
		}
	}
	if myIndex == -1 {
		// Own entry got pushed past the band page by a dense score range;
		// report no presence rather than a window missing its center.
		return []domain.RankEntry{}, nil
	}

	// Exact global rank: strictly-greater entries plus same-score entries
	// that tie-break ahead (all of which sit in the band above myIndex).
	equalAhead := 0
	for i := 0; i < myIndex; i++ {
		if entries[i].Score == myValue {
			equalAhead++
		}
	}
	myRank := countAbove + equalAhead + 1

	start := myIndex - rng
	if start < 0 {
		start = 0
	}
	end := myIndex + rng + 1
	if end > len(entries) {
		end = len(entries)
	}

	window := make([]domain.RankEntry, end-start)
	copy(window, entries[start:end])
	for i := range window {
		window[i].Rank = myRank - (myIndex - start) + i
	}
	return window, nil
}
