package session

import (
	"peak-marker/pkg/geometry"
)

// Snap maps an arbitrary (x,y) query to the nearest sample of the row,
// using squared Euclidean distance in native data units. The first sample
// achieving the minimum distance wins; sample order is the table's column
// order. Returns ErrEmptyRow when the row has no samples.
func (s *Session) Snap(row int, x, y float64) (geometry.Point2D, error) {
	if err := s.checkRow(row); err != nil {
		return geometry.Point2D{}, err
	}
	samples := s.tbl.Samples(row)
	if len(samples) == 0 {
		return geometry.Point2D{}, ErrEmptyRow
	}

	q := geometry.Point2D{X: x, Y: y}
	best := -1
	bestD := 0.0
	for i, p := range samples {
		d := q.Distance2(p)
		// NaN distances never compare true, which skips non-finite samples.
		if best < 0 && d == d {
			best = i
			bestD = d
			continue
		}
		if d < bestD {
			best = i
			bestD = d
		}
	}
	if best < 0 {
		// Every sample was non-finite; fall back to the first one.
		return samples[0], nil
	}
	return samples[best], nil
}
