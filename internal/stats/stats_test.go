package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAbsoluteMean(t *testing.T) {
	s := &MetricStats{}
	if got := s.AbsoluteMean(); got != 0 {
		t.Fatalf("empty AbsoluteMean = %v, want 0", got)
	}
	s.Add(2, 1)
	s.Add(4, 1)
	if got := s.AbsoluteMean(); !almostEqual(got, 3) {
		t.Fatalf("AbsoluteMean = %v, want 3", got)
	}
}

func TestRelativeMean_Arithmetic(t *testing.T) {
	s := &MetricStats{}
	s.Add(2, 1) // ratio 2
	s.Add(1, 2) // ratio 0.5
	if got := s.RelativeMean(false); !almostEqual(got, 1.25) {
		t.Fatalf("arithmetic RelativeMean = %v, want 1.25", got)
	}
}

func TestRelativeMean_Geometric(t *testing.T) {
	s := &MetricStats{}
	s.Add(2, 1) // ratio 2
	s.Add(1, 2) // ratio 0.5
	if got := s.RelativeMean(true); !almostEqual(got, 1) {
		t.Fatalf("geometric RelativeMean = %v, want 1", got)
	}
}

func TestRelativeMean_Empty(t *testing.T) {
	s := &MetricStats{}
	if got := s.RelativeMean(false); got != 1 {
		t.Fatalf("empty arithmetic RelativeMean = %v, want 1", got)
	}
	if got := s.RelativeMean(true); got != 1 {
		t.Fatalf("empty geometric RelativeMean = %v, want 1", got)
	}
}

func TestRelativeMean_SkipsUnusableRatios(t *testing.T) {
	s := &MetricStats{}
	s.Add(2, 0)  // no ratio at all
	s.Add(-3, 1) // negative ratio: arithmetic only
	s.Add(8, 2)  // ratio 4

	if got := s.RelativeMean(false); !almostEqual(got, 0.5) {
		t.Fatalf("arithmetic RelativeMean = %v, want 0.5", got)
	}
	// Geometric mean only saw the ratio 4 pair.
	if got := s.RelativeMean(true); !almostEqual(got, 4) {
		t.Fatalf("geometric RelativeMean = %v, want 4", got)
	}
	// Absolute mean saw all three values.
	if got := s.AbsoluteMean(); !almostEqual(got, 7.0/3.0) {
		t.Fatalf("AbsoluteMean = %v, want 7/3", got)
	}
}
