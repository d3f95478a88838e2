// Package table provides the in-memory tabular signal model and file loading.
//
// A table holds one curve per row. Column positions act as x-values; the
// first file column supplies the row label. Cells that fail numeric parsing
// are kept as NaN markers rather than dropped, so downstream consumers can
// apply their own substitution policy.
package table

import (
	"errors"
	"math"
	"strconv"

	"peak-marker/pkg/geometry"
)

// ErrEmpty is returned when a file parses but yields no usable rows.
var ErrEmpty = errors.New("table: no usable rows")

// ErrUnsupported is returned for file extensions the loader does not handle.
var ErrUnsupported = errors.New("table: unsupported file type")

// Table is an immutable row-labeled numeric table. Rows are curves, X holds
// the shared x-position of every column.
type Table struct {
	// Source is the path the table was loaded from, used as a naming hint
	// by exporters. Empty for tables built in memory.
	Source string

	// Labels holds one unique label per row.
	Labels []string

	// X holds the x-value of each column, in native column order.
	X []float64

	// Rows holds the y-values, Rows[i][j] sampled at X[j].
	Rows [][]float64
}

// New builds a table from pre-parsed rows. Labels are made unique by
// suffixing duplicates. Rows shorter than x are padded with NaN.
func New(source string, labels []string, x []float64, rows [][]float64) *Table {
	t := &Table{
		Source: source,
		Labels: uniqueLabels(labels),
		X:      x,
		Rows:   make([][]float64, len(rows)),
	}
	for i, r := range rows {
		padded := make([]float64, len(x))
		copy(padded, r)
		for j := len(r); j < len(x); j++ {
			padded[j] = math.NaN()
		}
		t.Rows[i] = padded
	}
	return t
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *Table) ColCount() int {
	if t == nil {
		return 0
	}
	return len(t.X)
}

// Label returns the label of row i.
func (t *Table) Label(i int) string {
	return t.Labels[i]
}

// Y returns the y-values of row i. The slice is shared, not copied;
// callers must treat it as read-only.
func (t *Table) Y(i int) []float64 {
	return t.Rows[i]
}

// Samples returns the (x,y) pairs of row i in native column order.
func (t *Table) Samples(i int) []geometry.Point2D {
	row := t.Rows[i]
	pts := make([]geometry.Point2D, len(row))
	for j, y := range row {
		pts[j] = geometry.Point2D{X: t.X[j], Y: y}
	}
	return pts
}

// uniqueLabels disambiguates duplicate labels by appending a counter,
// preserving first occurrences unchanged.
func uniqueLabels(labels []string) []string {
	out := make([]string, len(labels))
	seen := make(map[string]int, len(labels))
	for i, l := range labels {
		n := seen[l]
		seen[l] = n + 1
		if n == 0 {
			out[i] = l
			continue
		}
		out[i] = l + "_" + strconv.Itoa(n+1)
	}
	return out
}
