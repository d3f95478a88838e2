package peaks

import (
	"log"
	"math"

	"peak-marker/internal/table"
	"peak-marker/pkg/geometry"
)

// Finder maps a finite y-series to the indices of its peak candidates.
type Finder func(y []float64) []int

// Cache lazily computes and memoizes peak candidates per row index. Entries
// survive until Clear, which the controller calls on every table swap; a row
// index therefore never refers to two different curves within one cache
// generation.
type Cache struct {
	finder  Finder
	entries map[int][]geometry.Point2D
}

// NewCache creates a cache around the given finder. A nil finder uses
// Detect with default options.
func NewCache(finder Finder) *Cache {
	if finder == nil {
		opts := DefaultOptions()
		finder = func(y []float64) []int { return Detect(y, opts) }
	}
	return &Cache{
		finder:  finder,
		entries: make(map[int][]geometry.Point2D),
	}
}

// Candidates returns the peak candidates of row i, computing and storing
// them on first request. Non-finite y-values are replaced with 0 for
// detection only; the returned points are drawn from the row's original
// samples. A degenerate row yields an empty list.
func (c *Cache) Candidates(t *table.Table, i int) []geometry.Point2D {
	if got, ok := c.entries[i]; ok {
		return got
	}

	y := t.Y(i)
	clean, substituted := replaceNonFinite(y)
	if substituted {
		log.Printf("Row %s: non-finite values replaced with 0 for peak detection", t.Label(i))
	}

	var pts []geometry.Point2D
	if len(clean) > 0 {
		samples := t.Samples(i)
		for _, idx := range c.finder(clean) {
			if idx < 0 || idx >= len(samples) {
				continue
			}
			pts = append(pts, samples[idx])
		}
	}
	if pts == nil {
		pts = []geometry.Point2D{}
	}
	c.entries[i] = pts
	return pts
}

// Clear drops every entry. Must be called whenever the table is replaced.
func (c *Cache) Clear() {
	c.entries = make(map[int][]geometry.Point2D)
}

// replaceNonFinite copies y with NaN and Inf values set to 0. The bool
// reports whether any substitution happened. The original slice is left
// untouched so the displayed curve keeps its gaps.
func replaceNonFinite(y []float64) ([]float64, bool) {
	substituted := false
	out := make([]float64, len(y))
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = 0
			substituted = true
			continue
		}
		out[i] = v
	}
	return out, substituted
}
