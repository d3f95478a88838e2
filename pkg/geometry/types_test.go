package geometry

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(3, 4)
	if d := a.Distance(b); d != 5 {
		t.Fatalf("Distance = %g, want 5", d)
	}
	if d2 := a.Distance2(b); d2 != 25 {
		t.Fatalf("Distance2 = %g, want 25", d2)
	}
}

func TestFinite(t *testing.T) {
	if !NewPoint2D(1, -2).Finite() {
		t.Fatal("finite point reported non-finite")
	}
	if NewPoint2D(math.NaN(), 0).Finite() {
		t.Fatal("NaN x reported finite")
	}
	if NewPoint2D(0, math.Inf(1)).Finite() {
		t.Fatal("Inf y reported finite")
	}
}
