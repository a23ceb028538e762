package ranking

import (
	"math"
	"testing"

	"tekno-rank-service/internal/domain"
)

func TestScoreContestFairness(t *testing.T) {
	// Filler entry tunes the batch's weighted mean to exactly 7.5:
	// (9*2 + 8*40 + 7*46) / (2+40+46) = 660/88.
	batch := []domain.BayesianSubject{
		{SubjectID: "A", RawAverage: 9.0, SampleCount: 2},
		{SubjectID: "B", RawAverage: 8.0, SampleCount: 40},
		{SubjectID: "F", RawAverage: 7.0, SampleCount: 46},
	}

	scored := ScoreContest(batch, 10)
	if len(scored) != 3 {
		t.Fatalf("expected 3 scored entries, got %d", len(scored))
	}

	// B's forty ratings at 8.0 must beat A's two perfect-ish ratings.
	if scored[0].SubjectID != "B" || scored[1].SubjectID != "A" {
		t.Fatalf("expected order B, A, F; got %s, %s, %s",
			scored[0].SubjectID, scored[1].SubjectID, scored[2].SubjectID)
	}
	if math.Abs(scored[0].BayesianScore-7.9) > 1e-9 {
		t.Fatalf("B score: got %v, want 7.9", scored[0].BayesianScore)
	}
	if math.Abs(scored[1].BayesianScore-7.75) > 1e-9 {
		t.Fatalf("A score: got %v, want 7.75", scored[1].BayesianScore)
	}
}

func TestScoreContestShrinkageWeakensWithSamples(t *testing.T) {
	batch := []domain.BayesianSubject{
		{SubjectID: "few", RawAverage: 9.0, SampleCount: 3},
		{SubjectID: "many", RawAverage: 9.0, SampleCount: 30},
		{SubjectID: "anchor", RawAverage: 5.0, SampleCount: 100},
	}
	c := weightedMean(batch)

	scored := ScoreContest(batch, 10)
	byID := make(map[string]float64, len(scored))
	for _, s := range scored {
		byID[s.SubjectID] = s.BayesianScore
	}

	if math.Abs(byID["many"]-c) <= math.Abs(byID["few"]-c) {
		t.Fatalf("more samples must sit farther from C=%v: few=%v many=%v", c, byID["few"], byID["many"])
	}
}

func TestScoreContestEmptyBatch(t *testing.T) {
	if got := ScoreContest(nil, 10); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestScoreContestZeroSamplesFallsToNeutral(t *testing.T) {
	scored := ScoreContest([]domain.BayesianSubject{
		{SubjectID: "x", RawAverage: 9.0, SampleCount: 0},
	}, 10)
	if scored[0].BayesianScore != neutralPrior {
		t.Fatalf("zero-sample entry must score the neutral prior, got %v", scored[0].BayesianScore)
	}
}

func TestScoreContestDeterministicTies(t *testing.T) {
	batch := []domain.BayesianSubject{
		{SubjectID: "b", RawAverage: 8.0, SampleCount: 10},
		{SubjectID: "a", RawAverage: 8.0, SampleCount: 10},
	}
	scored := ScoreContest(batch, 10)
	if scored[0].SubjectID != "a" {
		t.Fatalf("ties must order by subject ID, got %s first", scored[0].SubjectID)
	}
}
