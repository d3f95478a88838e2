package export

import (
	"bytes"
	"encoding/csv"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"peak-marker/internal/session"
	"peak-marker/pkg/geometry"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Sample 1", "Sample 1"},
		{"a/b\\c:d", "a_b_c_d"},
		{"trace_01.raw", "trace_01.raw"},
		{"样品一", "样品一"},
		{"bad*chars?", "bad_chars_"},
	}
	for _, tc := range tests {
		if got := Sanitize(tc.in); got != tc.want {
			t.Fatalf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeBaseName(t *testing.T) {
	if got := SafeBaseName("/data/run 1.csv"); got != "run 1" {
		t.Fatalf("SafeBaseName = %q, want %q", got, "run 1")
	}
	if got := SafeBaseName(""); got != "unknown_file" {
		t.Fatalf("SafeBaseName(\"\") = %q, want unknown_file", got)
	}
}

func TestResultsFileName(t *testing.T) {
	if got := ResultsFileName("/tmp/run.csv"); got != "run_peak_results.csv" {
		t.Fatalf("ResultsFileName = %q", got)
	}
}

func TestPlotFileName(t *testing.T) {
	if got := PlotFileName("/tmp/run.csv", "A/B"); got != "run_peak_plot_A_B.png" {
		t.Fatalf("PlotFileName = %q", got)
	}
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	records := []session.Record{
		{
			Label: "R1",
			Left:  &geometry.Point2D{X: 1, Y: 2},
			Top:   &geometry.Point2D{X: 2.5, Y: 5},
			Right: &geometry.Point2D{X: 4, Y: 2},
		},
		{Label: "R2"},
	}

	path, err := WriteResults(dir, "/data/run.csv", records)
	if err != nil {
		t.Fatalf("WriteResults: %v", err)
	}
	if filepath.Base(path) != "run_peak_results.csv" {
		t.Fatalf("written file = %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open results: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read results: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	header := []string{"RowLabel", "Left_X", "Left_Y", "Top_X", "Top_Y", "Right_X", "Right_Y"}
	for i, want := range header {
		if rows[0][i] != want {
			t.Fatalf("header[%d] = %q, want %q", i, rows[0][i], want)
		}
	}
	if rows[1][0] != "R1" || rows[1][1] != "1" || rows[1][4] != "5" {
		t.Fatalf("annotated row = %v", rows[1])
	}
	// Unset slots stay empty, never sentinel values.
	for i := 1; i < 7; i++ {
		if rows[2][i] != "" {
			t.Fatalf("unannotated row field %d = %q, want empty", i, rows[2][i])
		}
	}
}

func TestPlotGeometryDataAt(t *testing.T) {
	g := PlotGeometry{
		Width: 200, Height: 100,
		Left: 50, Top: 20, Right: 50, Bottom: 30,
		XMin: 0, XMax: 10, YMin: 0, YMax: 5,
	}

	// Center of the plot box maps to the center of the data ranges.
	x, y, ok := g.DataAt(100, 45)
	if !ok {
		t.Fatal("center of plot box should map")
	}
	if math.Abs(x-5) > 1e-9 || math.Abs(y-2.5) > 1e-9 {
		t.Fatalf("DataAt center = (%g,%g), want (5,2.5)", x, y)
	}

	// Top-left corner of the box is (XMin, YMax).
	x, y, ok = g.DataAt(50, 20)
	if !ok || x != 0 || y != 5 {
		t.Fatalf("DataAt corner = (%g,%g,%v), want (0,5,true)", x, y, ok)
	}

	// Outside the box fails.
	if _, _, ok := g.DataAt(10, 45); ok {
		t.Fatal("position left of the plot box must not map")
	}
	if _, _, ok := g.DataAt(100, 95); ok {
		t.Fatal("position below the plot box must not map")
	}
}

func sampleView() session.RowView {
	samples := []geometry.Point2D{
		{X: 1, Y: 0}, {X: 2, Y: 5}, {X: 3, Y: math.NaN()}, {X: 4, Y: 4}, {X: 5, Y: 0},
	}
	top := geometry.Point2D{X: 2, Y: 5}
	return session.RowView{
		Index:      0,
		Label:      "R1",
		Samples:    samples,
		Candidates: []geometry.Point2D{{X: 2, Y: 5}, {X: 4, Y: 4}},
		Annotation: session.RowAnnotation{Top: &top},
	}
}

func TestRenderRowProducesPNG(t *testing.T) {
	r, err := RenderRow(sampleView(), 640, 400)
	if err != nil {
		t.Fatalf("RenderRow: %v", err)
	}
	cfgImg, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfgImg.Bounds().Dx() != 640 || cfgImg.Bounds().Dy() != 400 {
		t.Fatalf("image size = %v, want 640x400", cfgImg.Bounds())
	}
	if r.Geom.XMin >= 1 || r.Geom.XMax <= 5 {
		t.Fatalf("x range [%g,%g] should pad beyond the data", r.Geom.XMin, r.Geom.XMax)
	}
}

func TestRenderRowSinglePoint(t *testing.T) {
	view := session.RowView{
		Label:   "single",
		Samples: []geometry.Point2D{{X: 3, Y: 7}},
	}
	if _, err := RenderRow(view, 320, 240); err != nil {
		t.Fatalf("RenderRow single point: %v", err)
	}
}

func TestRenderRowNoFiniteSamples(t *testing.T) {
	view := session.RowView{
		Label:   "void",
		Samples: []geometry.Point2D{{X: 1, Y: math.NaN()}},
	}
	if _, err := RenderRow(view, 320, 240); err == nil {
		t.Fatal("expected error for a row with no finite samples")
	}
}

func TestSavePlotCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	path, err := SavePlot(dir, "/data/run.csv", sampleView(), 320, 240)
	if err != nil {
		t.Fatalf("SavePlot: %v", err)
	}
	if filepath.Base(path) != "run_peak_plot_R1.png" {
		t.Fatalf("plot path = %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("plot file missing: %v", err)
	}
}
