package memory

import (
	"context"
	"testing"

	"tekno-rank-service/internal/query"
)

func TestSearchFiltersAndSorts(t *testing.T) {
	b := NewBackend("memory")
	b.Seed("questions", []query.Hit{
		{"id": "a", "difficulty": "easy", "grade": 5, "times_answered": 9},
		{"id": "b", "difficulty": "hard", "grade": 5, "times_answered": 2},
		{"id": "c", "difficulty": "hard", "grade": 6, "times_answered": 4},
		{"id": "d", "difficulty": "hard", "grade": 5, "times_answered": 1},
	})

	res, err := b.Search(context.Background(), query.Query{
		Collection: "questions",
		Predicates: []query.Predicate{
			query.Eq("grade", 5),
			query.In("difficulty", []string{"hard", "legendary"}),
		},
		Sort:    []query.Sort{{Field: "times_answered"}},
		PerPage: 10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Hits) != 2 || res.Found != 2 {
		t.Fatalf("expected 2 hits, got %d (found %d)", len(res.Hits), res.Found)
	}
	if res.Hits[0].Str("id") != "d" || res.Hits[1].Str("id") != "b" {
		t.Fatalf("wrong order: %v", res.Hits)
	}
}

func TestSearchTruncatesButCountsAll(t *testing.T) {
	b := NewBackend("memory")
	b.Seed("leaderboard", []query.Hit{
		{"student_id": "a", "total_points": 10.0},
		{"student_id": "b", "total_points": 30.0},
		{"student_id": "c", "total_points": 20.0},
	})

	res, err := b.Search(context.Background(), query.Query{
		Collection: "leaderboard",
		Sort:       []query.Sort{{Field: "total_points", Desc: true}},
		PerPage:    2,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.Found != 3 || len(res.Hits) != 2 {
		t.Fatalf("expected found=3 hits=2, got found=%d hits=%d", res.Found, len(res.Hits))
	}
	if res.Hits[0].Str("student_id") != "b" {
		t.Fatalf("wrong leader: %v", res.Hits[0])
	}
}

func TestCountHonorsNotIn(t *testing.T) {
	b := NewBackend("memory")
	b.Seed("questions", []query.Hit{
		{"id": "a"}, {"id": "b"}, {"id": "c"},
	})
	n, err := b.Count(context.Background(), "questions", []query.Predicate{
		query.NotIn("id", []string{"b"}),
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
}
