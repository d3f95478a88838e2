package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"peak-marker/internal/session"
	"peak-marker/pkg/geometry"
)

// ResultsFileName derives the results CSV name from the source file the
// table was loaded from.
func ResultsFileName(source string) string {
	return SafeBaseName(source) + "_peak_results.csv"
}

// WriteResults writes the annotation records to dir, named after the source
// file. Records are written in the order given (ascending row index); unset
// slots become empty fields, never sentinel numbers. Returns the written
// path.
func WriteResults(dir, source string, records []session.Record) (string, error) {
	path := filepath.Join(dir, ResultsFileName(source))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"RowLabel", "Left_X", "Left_Y", "Top_X", "Top_Y", "Right_X", "Right_Y"}); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	for _, rec := range records {
		row := []string{rec.Label}
		row = append(row, pointFields(rec.Left)...)
		row = append(row, pointFields(rec.Top)...)
		row = append(row, pointFields(rec.Right)...)
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func pointFields(p *geometry.Point2D) []string {
	if p == nil {
		return []string{"", ""}
	}
	return []string{
		strconv.FormatFloat(p.X, 'g', -1, 64),
		strconv.FormatFloat(p.Y, 'g', -1, 64),
	}
}
