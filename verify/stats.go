package verify

import "math"

// RunningStats accumulates sample_count, running max, sum, and sum_sq for
// one layer or for the end-to-end total (§4.6 "Statistical aggregation").
type RunningStats struct {
	Count  int64
	Max    float64
	Sum    float64
	SumSq  float64
}

// Observe folds one error sample into the running statistics.
func (s *RunningStats) Observe(x float64) {
	s.Count++
	s.Sum += x
	s.SumSq += x * x
	if x > s.Max {
		s.Max = x
	}
}

// Mean returns sum/n, or 0 for an empty sample.
func (s RunningStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Variance returns sum_sq/n - mean^2, clamped to 0 against numerical
// negative results.
func (s RunningStats) Variance() float64 {
	if s.Count == 0 {
		return 0
	}
	mean := s.Mean()
	v := s.SumSq/float64(s.Count) - mean*mean
	if v < 0 {
		return 0
	}
	return v
}

// Std returns sqrt(Variance()).
func (s RunningStats) Std() float64 {
	return math.Sqrt(s.Variance())
}
