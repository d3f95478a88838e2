package peaks

import (
	"math"
	"testing"

	"peak-marker/internal/table"
)

func testTable() *table.Table {
	x := []float64{1, 2, 3, 4, 5}
	rows := [][]float64{
		{0, 5, math.NaN(), 4, 0},
		{1, 1, 1, 1, 1},
	}
	return table.New("mem", []string{"R1", "R2"}, x, rows)
}

func TestCandidatesSubstitutesNonFinite(t *testing.T) {
	var seen []float64
	cache := NewCache(func(y []float64) []int {
		seen = append([]float64(nil), y...)
		return []int{1, 3}
	})

	pts := cache.Candidates(testTable(), 0)

	if seen == nil {
		t.Fatal("finder was not invoked")
	}
	if seen[2] != 0 {
		t.Fatalf("finder saw y[2] = %g, want 0 substitution", seen[2])
	}
	if len(pts) != 2 {
		t.Fatalf("got %d candidates, want 2", len(pts))
	}
	// Candidates come from the original samples, not the substituted series.
	if pts[0].X != 2 || pts[0].Y != 5 || pts[1].X != 4 || pts[1].Y != 4 {
		t.Fatalf("candidates = %v", pts)
	}
}

func TestCandidatesMemoized(t *testing.T) {
	calls := 0
	cache := NewCache(func(y []float64) []int {
		calls++
		return []int{1}
	})
	tbl := testTable()

	cache.Candidates(tbl, 0)
	cache.Candidates(tbl, 0)
	if calls != 1 {
		t.Fatalf("finder called %d times, want 1", calls)
	}

	cache.Clear()
	cache.Candidates(tbl, 0)
	if calls != 2 {
		t.Fatalf("finder called %d times after Clear, want 2", calls)
	}
}

func TestCandidatesEmptyResult(t *testing.T) {
	cache := NewCache(func(y []float64) []int { return nil })
	pts := cache.Candidates(testTable(), 1)
	if pts == nil || len(pts) != 0 {
		t.Fatalf("degenerate row should yield an empty non-nil slice, got %v", pts)
	}
}

func TestCandidatesOutOfRangeIndicesDropped(t *testing.T) {
	cache := NewCache(func(y []float64) []int { return []int{-1, 2, 99} })
	pts := cache.Candidates(testTable(), 1)
	if len(pts) != 1 || pts[0].X != 3 {
		t.Fatalf("candidates = %v, want only the in-range index", pts)
	}
}
