package table

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load("data.txt")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestLoadCSV(t *testing.T) {
	csv := "label,c1,c2,c3\nA,1,2,3\nB,4,bad,6\n"
	tbl, err := Load(writeTemp(t, "data.csv", []byte(csv)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if tbl.RowCount() != 2 || tbl.ColCount() != 3 {
		t.Fatalf("size = %dx%d, want 2x3", tbl.RowCount(), tbl.ColCount())
	}
	if tbl.Label(0) != "A" || tbl.Label(1) != "B" {
		t.Fatalf("labels = %v", tbl.Labels)
	}
	// Column positions are 1-based x-values.
	for j, want := range []float64{1, 2, 3} {
		if tbl.X[j] != want {
			t.Fatalf("X[%d] = %g, want %g", j, tbl.X[j], want)
		}
	}
	// Unparseable cells become NaN.
	if !math.IsNaN(tbl.Y(1)[1]) {
		t.Fatalf("Y(1)[1] = %g, want NaN", tbl.Y(1)[1])
	}
}

func TestLoadCSVDropsEmptyRowsAndColumns(t *testing.T) {
	csv := "label,c1,c2,c3\nA,1,,3\nEmpty,,,\nB,4,,6\n"
	tbl, err := Load(writeTemp(t, "sparse.csv", []byte(csv)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if tbl.RowCount() != 2 {
		t.Fatalf("RowCount = %d, want 2 (all-NaN row dropped)", tbl.RowCount())
	}
	if tbl.ColCount() != 2 {
		t.Fatalf("ColCount = %d, want 2 (all-NaN column dropped)", tbl.ColCount())
	}
	// Surviving columns keep their original positions.
	if tbl.X[0] != 1 || tbl.X[1] != 3 {
		t.Fatalf("X = %v, want [1 3]", tbl.X)
	}
	if tbl.Label(0) != "A" || tbl.Label(1) != "B" {
		t.Fatalf("labels = %v", tbl.Labels)
	}
}

func TestLoadCSVRaggedRows(t *testing.T) {
	csv := "label,c1,c2,c3\nA,1,2,3\nB,4\n"
	tbl, err := Load(writeTemp(t, "ragged.csv", []byte(csv)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.ColCount() != 3 {
		t.Fatalf("ColCount = %d, want 3", tbl.ColCount())
	}
	row := tbl.Y(1)
	if row[0] != 4 || !math.IsNaN(row[1]) || !math.IsNaN(row[2]) {
		t.Fatalf("ragged row not padded with NaN: %v", row)
	}
}

func TestLoadCSVEmptyFile(t *testing.T) {
	_, err := Load(writeTemp(t, "empty.csv", []byte("label,c1\n")))
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestLoadCSVGBK(t *testing.T) {
	utf8CSV := "标签,c1,c2\n样品一,1,2\n"
	raw, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(utf8CSV))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	tbl, err := Load(writeTemp(t, "gbk.csv", raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Label(0) != "样品一" {
		t.Fatalf("Label(0) = %q, want 样品一", tbl.Label(0))
	}
}

func TestLoadCSVLatin1Fallback(t *testing.T) {
	// 0xE9 followed by a comma is invalid UTF-8 and invalid GBK, so the
	// loader falls through to latin1.
	raw := []byte("label,c1\ncaf\xe9,1\n")
	tbl, err := Load(writeTemp(t, "latin1.csv", raw))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Label(0) != "café" {
		t.Fatalf("Label(0) = %q, want café", tbl.Label(0))
	}
}
