package adaptive

import "tekno-rank-service/internal/domain"

// selectCandidate picks one question from an already-ordered candidate
// list. Candidates exactly on the target tier are preferred; within the
// chosen pool the pick is uniform, keeping selection auditable (callers
// pre-sort by times_answered for spaced exposure).
//
// If excluding answered questions would empty a non-empty list, the
// exclusion is dropped: partial history must never fully block practice.
func selectCandidate(candidates []domain.CandidateItem, target domain.Difficulty, excluded map[string]struct{}, pick func(n int) int) (domain.CandidateItem, error) {
	if len(candidates) == 0 {
		return domain.CandidateItem{}, domain.ErrNoEligibleItems
	}

	pool := candidates
	if len(excluded) > 0 {
		remaining := make([]domain.CandidateItem, 0, len(candidates))
		for _, c := range candidates {
			if _, skip := excluded[c.ID]; !skip {
				remaining = append(remaining, c)
			}
		}
		if len(remaining) > 0 {
			pool = remaining
		}
	}

	exact := make([]domain.CandidateItem, 0, len(pool))
	for _, c := range pool {
		if c.Difficulty == target {
			exact = append(exact, c)
		}
	}
	if len(exact) > 0 {
		pool = exact
	}

	return pool[pick(len(pool))], nil
}
