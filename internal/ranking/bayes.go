package ranking

import (
	"sort"

	"tekno-rank-service/internal/domain"
)

// DefaultMinSamples is how many evaluations an entry needs before its raw
// average outweighs the population mean.
const DefaultMinSamples = 10

// neutralPrior stands in for the population mean of an empty batch,
// mid-high on the 0-10 evaluation scale.
const neutralPrior = 7.5

// ScoreContest ranks contest entries by Bayesian average:
//
//	WR = (v / (v + m)) * R + (m / (v + m)) * C
//
// where C is the batch's sample-weighted mean. Small-sample averages are
// pulled toward C, so two perfect ratings cannot outrank forty slightly
// lower ones. The whole batch is always rescored together because C
// depends on every member.
func ScoreContest(subjects []domain.BayesianSubject, minSamples int) []domain.ScoredSubject {
	m := float64(minSamples)
	if minSamples <= 0 {
		m = DefaultMinSamples
	}
	c := weightedMean(subjects)

	scored := make([]domain.ScoredSubject, 0, len(subjects))
	for _, s := range subjects {
		v := float64(s.SampleCount)
		scored = append(scored, domain.ScoredSubject{
			BayesianSubject: s,
			BayesianScore:   (v/(v+m))*s.RawAverage + (m/(v+m))*c,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].BayesianScore != scored[j].BayesianScore {
			return scored[i].BayesianScore > scored[j].BayesianScore
		}
		return scored[i].SubjectID < scored[j].SubjectID
	})
	return scored
}

func weightedMean(subjects []domain.BayesianSubject) float64 {
	var sum, count float64
	for _, s := range subjects {
		sum += s.RawAverage * float64(s.SampleCount)
		count += float64(s.SampleCount)
	}
	if count == 0 {
		return neutralPrior
	}
	return sum / count
}
