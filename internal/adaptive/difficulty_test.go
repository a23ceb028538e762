package adaptive

import (
	"testing"

	"tekno-rank-service/internal/domain"
)

func rate(v float64) *float64 { return &v }

func TestNextDifficultyTransitions(t *testing.T) {
	cases := []struct {
		name   string
		signal domain.PerformanceSignal
		want   domain.Difficulty
	}{
		{
			name:   "streak of three promotes",
			signal: domain.PerformanceSignal{ConsecutiveCorrect: 3, CurrentDifficulty: domain.Medium},
			want:   domain.Hard,
		},
		{
			name:   "two wrong demotes",
			signal: domain.PerformanceSignal{ConsecutiveWrong: 2, CurrentDifficulty: domain.Hard},
			want:   domain.Medium,
		},
		{
			name:   "demote clamps at easy",
			signal: domain.PerformanceSignal{ConsecutiveWrong: 2, CurrentDifficulty: domain.Easy},
			want:   domain.Easy,
		},
		{
			name:   "promote clamps at legendary",
			signal: domain.PerformanceSignal{ConsecutiveCorrect: 5, CurrentDifficulty: domain.Legendary},
			want:   domain.Legendary,
		},
		{
			name:   "streak beats topic rate",
			signal: domain.PerformanceSignal{ConsecutiveCorrect: 4, CurrentDifficulty: domain.Medium, TopicSuccessRate: rate(10)},
			want:   domain.Hard,
		},
		{
			name:   "wrong streak beats strong topic rate",
			signal: domain.PerformanceSignal{ConsecutiveWrong: 2, CurrentDifficulty: domain.Medium, TopicSuccessRate: rate(95)},
			want:   domain.Easy,
		},
		{
			name:   "high topic rate promotes",
			signal: domain.PerformanceSignal{CurrentDifficulty: domain.Easy, TopicSuccessRate: rate(80)},
			want:   domain.Medium,
		},
		{
			name:   "low topic rate demotes",
			signal: domain.PerformanceSignal{CurrentDifficulty: domain.Hard, TopicSuccessRate: rate(49.9)},
			want:   domain.Medium,
		},
		{
			name:   "middling topic rate holds",
			signal: domain.PerformanceSignal{CurrentDifficulty: domain.Medium, TopicSuccessRate: rate(65)},
			want:   domain.Medium,
		},
		{
			name:   "no signal holds",
			signal: domain.PerformanceSignal{CurrentDifficulty: domain.Hard},
			want:   domain.Hard,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := NextDifficulty(c.signal); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestNextDifficultyMonotonicOnStreak(t *testing.T) {
	for _, start := range []domain.Difficulty{domain.Easy, domain.Medium, domain.Hard, domain.Legendary} {
		got := NextDifficulty(domain.PerformanceSignal{ConsecutiveCorrect: 3, CurrentDifficulty: start})
		if got < start {
			t.Fatalf("promotion from %v went down to %v", start, got)
		}
		if start != domain.Legendary && got <= start {
			t.Fatalf("promotion from %v did not move up (got %v)", start, got)
		}
	}
}

func TestNextDifficultyIdempotentAtCeiling(t *testing.T) {
	d := domain.Legendary
	for i := 0; i < 5; i++ {
		d = NextDifficulty(domain.PerformanceSignal{ConsecutiveCorrect: 3, CurrentDifficulty: d})
	}
	if d != domain.Legendary {
		t.Fatalf("expected legendary to hold, got %v", d)
	}

	d = domain.Easy
	for i := 0; i < 5; i++ {
		d = NextDifficulty(domain.PerformanceSignal{ConsecutiveWrong: 2, CurrentDifficulty: d})
	}
	if d != domain.Easy {
		t.Fatalf("expected easy to hold, got %v", d)
	}
}
