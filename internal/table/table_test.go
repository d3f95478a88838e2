package table

import (
	"math"
	"testing"
)

func TestNewPadsShortRows(t *testing.T) {
	x := []float64{1, 2, 3}
	tbl := New("mem", []string{"A"}, x, [][]float64{{7}})

	if got := tbl.ColCount(); got != 3 {
		t.Fatalf("ColCount = %d, want 3", got)
	}
	row := tbl.Y(0)
	if row[0] != 7 {
		t.Fatalf("row[0] = %g, want 7", row[0])
	}
	if !math.IsNaN(row[1]) || !math.IsNaN(row[2]) {
		t.Fatalf("padding cells should be NaN, got %v", row)
	}
}

func TestUniqueLabels(t *testing.T) {
	got := uniqueLabels([]string{"A", "A", "B", "A"})
	want := []string{"A", "A_2", "B", "A_3"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("uniqueLabels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSamplesPairXWithY(t *testing.T) {
	tbl := New("mem", []string{"A"}, []float64{1, 2}, [][]float64{{5, 9}})
	pts := tbl.Samples(0)
	if len(pts) != 2 {
		t.Fatalf("len(Samples) = %d, want 2", len(pts))
	}
	if pts[0].X != 1 || pts[0].Y != 5 || pts[1].X != 2 || pts[1].Y != 9 {
		t.Fatalf("unexpected samples: %v", pts)
	}
}

func TestNilTableCounts(t *testing.T) {
	var tbl *Table
	if tbl.RowCount() != 0 || tbl.ColCount() != 0 {
		t.Fatal("nil table should report zero rows and columns")
	}
}
