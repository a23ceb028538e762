package ranking

import (
	"context"
	"testing"

	"tekno-rank-service/internal/infra/memory"
	"tekno-rank-service/internal/query"
)

func seedRankedBoard(b *memory.Backend, n int) {
	hits := make([]query.Hit, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, query.Hit{
			"student_id":   studentID(i),
			"full_name":    "Student",
			"total_points": float64(2000 - i*25),
		})
	}
	b.Seed("leaderboard", hits)
}

func studentID(i int) string {
	return string(rune('a'+i/10)) + string(rune('a'+i%10))
}

func TestAroundMeWindowSymmetry(t *testing.T) {
	engine, backend := newTestEngine(nil)
	seedRankedBoard(backend, 9)

	// "ad" holds global rank 4 (index 3).
	window, err := engine.AroundMe(context.Background(), "ad", Params{Scope: ScopeTurkey}, 2)
	if err != nil {
		t.Fatalf("around me: %v", err)
	}
	if len(window) != 5 {
		t.Fatalf("expected window of 5, got %d", len(window))
	}

	selfCount := 0
	for i, e := range window {
		if e.Rank != i+2 {
			t.Fatalf("position %d: rank %d, want %d", i, e.Rank, i+2)
		}
		if e.IsMe {
			selfCount++
			if e.Rank != 4 {
				t.Fatalf("self rank: got %d, want 4", e.Rank)
			}
			if e.EntityID != "ad" {
				t.Fatalf("self entity: %s", e.EntityID)
			}
		}
	}
	if selfCount != 1 {
		t.Fatalf("self must appear exactly once, got %d", selfCount)
	}
}

func TestAroundMeClampsAtTop(t *testing.T) {
	engine, backend := newTestEngine(nil)
	seedRankedBoard(backend, 9)

	window, err := engine.AroundMe(context.Background(), "aa", Params{Scope: ScopeTurkey}, 3)
	if err != nil {
		t.Fatalf("around me: %v", err)
	}
	if len(window) != 4 {
		t.Fatalf("expected 4 entries for the leader, got %d", len(window))
	}
	if window[0].Rank != 1 || !window[0].IsMe {
		t.Fatalf("leader must open the window at rank 1: %+v", window[0])
	}
}

func TestAroundMeSmallPopulation(t *testing.T) {
	engine, backend := newTestEngine(nil)
	seedRankedBoard(backend, 3)

	window, err := engine.AroundMe(context.Background(), "ab", Params{Scope: ScopeTurkey}, 5)
	if err != nil {
		t.Fatalf("around me: %v", err)
	}
	// min(2r+1, total ranked)
	if len(window) != 3 {
		t.Fatalf("expected whole population of 3, got %d", len(window))
	}
}

func TestAroundMeUnrankedEntityIsEmptyNotError(t *testing.T) {
	engine, backend := newTestEngine(nil)
	seedRankedBoard(backend, 5)

	window, err := engine.AroundMe(context.Background(), "ghost", Params{Scope: ScopeTurkey}, 3)
	if err != nil {
		t.Fatalf("unranked entity must not error: %v", err)
	}
	if len(window) != 0 {
		t.Fatalf("expected empty window, got %v", window)
	}
}

func TestAroundMeRanksBeyondBand(t *testing.T) {
	engine, backend := newTestEngine(nil)
	// 80 entries 25 points apart: the ±500 band holds at most ~40 of them,
	// so the count query must anchor deep entries to their true rank.
	seedRankedBoard(backend, 80)

	window, err := engine.AroundMe(context.Background(), studentID(70), Params{Scope: ScopeTurkey}, 1)
	if err != nil {
		t.Fatalf("around me: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("expected window of 3, got %d", len(window))
	}
	if window[1].Rank != 71 || !window[1].IsMe {
		t.Fatalf("expected global rank 71 at center, got %+v", window[1])
	}
}

func TestAroundMeTiesAnchorExactly(t *testing.T) {
	engine, backend := newTestEngine(nil)
	backend.Seed("leaderboard", []query.Hit{
		{"student_id": "s-1", "full_name": "A", "total_points": 900.0},
		{"student_id": "s-2", "full_name": "B", "total_points": 800.0},
		{"student_id": "s-3", "full_name": "C", "total_points": 800.0},
		{"student_id": "s-4", "full_name": "D", "total_points": 800.0},
		{"student_id": "s-5", "full_name": "E", "total_points": 700.0},
	})

	// s-3 ties with s-2 and s-4; ID order puts it second among the ties,
	// global rank 3.
	window, err := engine.AroundMe(context.Background(), "s-3", Params{Scope: ScopeTurkey}, 1)
	if err != nil {
		t.Fatalf("around me: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(window))
	}
	if window[1].EntityID != "s-3" || window[1].Rank != 3 {
		t.Fatalf("tie anchoring wrong: %+v", window[1])
	}
	if window[0].EntityID != "s-2" || window[2].EntityID != "s-4" {
		t.Fatalf("tie neighbors wrong: %+v", window)
	}
}
