// Package stats implements the per-metric aggregate accessors consumed by
// the summary composer: the absolute mean of a metric's values on one
// batch, and the mean ratio of those values against the reference batch.
package stats

import "math"

// MetricStats accumulates (value, reference value) pairs for one metric on
// one batch and serves the two accessor contracts the composer reads.
// Construct with Add calls during state building; read-only afterwards.
//
// The geometric mean skips pairs where the ratio is not strictly positive
// (its logarithm is undefined); if every pair is skipped the relative mean
// falls back to 1.
type MetricStats struct {
	count float64
	sum   float64

	ratioCount float64
	ratioSum   float64

	logCount float64
	logSum   float64
}

// Add accumulates one data point and its counterpart on the reference
// batch. Pairs with a zero reference are counted toward the absolute mean
// only: no ratio can be formed for them.
func (s *MetricStats) Add(value, refValue float64) {
	s.count++
	s.sum += value

	if refValue == 0 {
		return
	}
	ratio := value / refValue
	s.ratioCount++
	s.ratioSum += ratio
	if ratio > 0 {
		s.logCount++
		s.logSum += math.Log(ratio)
	}
}

// AbsoluteMean returns the arithmetic mean of the accumulated values,
// or 0 when nothing was accumulated.
func (s *MetricStats) AbsoluteMean() float64 {
	if s.count == 0 {
		return 0
	}
	return s.sum / s.count
}

// RelativeMean returns the mean ratio of this batch's values to the
// reference batch's values, arithmetic or geometric per the flag.
// With no usable ratios it returns 1, the neutral "same as reference".
func (s *MetricStats) RelativeMean(geometric bool) float64 {
	if geometric {
		if s.logCount == 0 {
			return 1
		}
		return math.Exp(s.logSum / s.logCount)
	}
	if s.ratioCount == 0 {
		return 1
	}
	return s.ratioSum / s.ratioCount
}
