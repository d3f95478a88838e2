// Package peaks provides local-maximum detection over sampled curves and a
// per-row candidate cache.
package peaks

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Options controls which local maxima qualify as candidates.
type Options struct {
	// Prominence is how far a peak must stand out from the surrounding
	// baseline, in y units.
	Prominence float64

	// MinWidth is the minimum peak width in samples, measured at half the
	// peak's prominence.
	MinWidth float64
}

// DefaultOptions returns the detection thresholds used by the application.
func DefaultOptions() Options {
	return Options{Prominence: 0.1, MinWidth: 1}
}

// Detect returns the indices of local maxima in y that satisfy the
// prominence and width thresholds, in ascending order. The input must be
// finite; callers substitute non-finite values first (see Cache).
func Detect(y []float64, opts Options) []int {
	maxima := localMaxima(y)
	var out []int
	for _, m := range maxima {
		prom, lbase, rbase := prominence(y, m)
		if prom < opts.Prominence {
			continue
		}
		if width(y, m, prom, lbase, rbase) < opts.MinWidth {
			continue
		}
		out = append(out, m)
	}
	return out
}

// localMaxima finds strict local maxima, treating a flat plateau as a single
// maximum at its midpoint.
func localMaxima(y []float64) []int {
	var out []int
	i := 1
	for i < len(y)-1 {
		if y[i] <= y[i-1] {
			i++
			continue
		}
		// Climb over a possible plateau.
		j := i
		for j < len(y)-1 && y[j+1] == y[i] {
			j++
		}
		if j < len(y)-1 && y[j+1] < y[i] {
			out = append(out, (i+j)/2)
		}
		i = j + 1
	}
	return out
}

// prominence computes how far the peak at index p rises above its bases.
// It scans outward to the nearest higher terrain (or the signal edge) on
// each side and takes the lower valley floor between.
func prominence(y []float64, p int) (prom float64, leftBase, rightBase int) {
	lo := 0
	for i := p - 1; i >= 0; i-- {
		if y[i] > y[p] {
			lo = i + 1
			break
		}
	}
	hi := len(y) - 1
	for i := p + 1; i < len(y); i++ {
		if y[i] > y[p] {
			hi = i - 1
			break
		}
	}

	leftBase = p
	if lo < p {
		leftBase = lo + floats.MinIdx(y[lo:p])
	}
	rightBase = p
	if p+1 <= hi {
		rightBase = p + 1 + floats.MinIdx(y[p+1:hi+1])
	}

	base := math.Max(y[leftBase], y[rightBase])
	return y[p] - base, leftBase, rightBase
}

// width measures the peak extent in samples at half its prominence, with
// linear interpolation at the crossings.
func width(y []float64, p int, prom float64, leftBase, rightBase int) float64 {
	h := y[p] - prom/2

	left := float64(leftBase)
	for i := p; i > leftBase; i-- {
		if y[i-1] < h {
			left = float64(i-1) + (h-y[i-1])/(y[i]-y[i-1])
			break
		}
	}

	right := float64(rightBase)
	for i := p; i < rightBase; i++ {
		if y[i+1] < h {
			right = float64(i+1) - (h-y[i+1])/(y[i]-y[i+1])
			break
		}
	}

	return right - left
}
