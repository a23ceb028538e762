package search

import (
	"testing"

	"tekno-rank-service/internal/query"
)

func TestCompileFilterDialect(t *testing.T) {
	got := CompileFilter([]query.Predicate{
		query.Eq("grade", 5),
		query.Eq("city_id", "c-34"),
		query.In("difficulty", []string{"hard", "medium", "legendary"}),
		query.Gte("total_points", 400),
		query.Lte("total_points", 1400),
		query.NotIn("id", []string{"q-1", "q-2"}),
	})
	want := "grade:=5 && city_id:=c-34 && difficulty:[hard,medium,legendary] && total_points:>=400 && total_points:<=1400 && id:!=[q-1,q-2]"
	if got != want {
		t.Fatalf("filter dialect mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestCompileFilterEmpty(t *testing.T) {
	if got := CompileFilter(nil); got != "" {
		t.Fatalf("expected empty filter, got %q", got)
	}
}

func TestCompileSort(t *testing.T) {
	got := compileSort([]query.Sort{
		{Field: "matematik_points", Desc: true},
		{Field: "times_answered"},
	})
	if got != "matematik_points:desc,times_answered:asc" {
		t.Fatalf("sort dialect mismatch: %s", got)
	}
}

func TestNormalizePrefersQuestionID(t *testing.T) {
	hit := normalize(map[string]any{"id": "doc-9", "question_id": "q-9", "difficulty": "hard"})
	if hit.Str("id") != "q-9" {
		t.Fatalf("expected question_id to win, got %q", hit.Str("id"))
	}
	hit = normalize(map[string]any{"id": "doc-9"})
	if hit.Str("id") != "doc-9" {
		t.Fatalf("expected raw id, got %q", hit.Str("id"))
	}
}
