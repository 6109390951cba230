// Package calibrate implements the Observer: per-tensor range statistics,
// coverage metrics against the safe ranges Analyze claims, and the
// fail-closed range veto.
package calibrate

import "math"

// TensorStats tracks the observed range of one tensor against the safe
// range inherited from analysis.
type TensorStats struct {
	Name         string
	LObs, UObs   float64
	LSafe, USafe float64
	IsDegenerate bool
	RangeVeto    bool
}

// NewTensorStats seeds LObs/UObs at +Inf/-Inf so the first sample always
// widens the observed range (§3 "Tensor statistics").
func NewTensorStats(name string, safeLo, safeHi float64) *TensorStats {
	return &TensorStats{
		Name:  name,
		LObs:  math.Inf(1),
		UObs:  math.Inf(-1),
		LSafe: safeLo,
		USafe: safeHi,
	}
}

// Observe folds one sample into the running range. NaN and +/-Inf samples
// are skipped with no state change.
func (ts *TensorStats) Observe(sample float64) {
	if math.IsNaN(sample) || math.IsInf(sample, 0) {
		return
	}
	if sample < ts.LObs {
		ts.LObs = sample
	}
	if sample > ts.UObs {
		ts.UObs = sample
	}
}

// Coverage returns C_t = (U_obs-L_obs)/(U_safe-L_safe), marking the tensor
// degenerate (and returning 1) when the observed width is below
// degenerateEpsilon, or when no finite sample was ever observed.
func (ts *TensorStats) Coverage(degenerateEpsilon float64) float64 {
	if math.IsInf(ts.LObs, 1) || math.IsInf(ts.UObs, -1) {
		ts.IsDegenerate = true
		return 1.0
	}
	widthObs := ts.UObs - ts.LObs
	if math.Abs(widthObs) < degenerateEpsilon {
		ts.IsDegenerate = true
		return 1.0
	}
	ts.IsDegenerate = false
	return widthObs / (ts.USafe - ts.LSafe)
}

// CheckRangeVeto sets RangeVeto and returns it when an observed bound
// exceeds the claimed safe range (§4.4 "Range veto").
func (ts *TensorStats) CheckRangeVeto() bool {
	if ts.LObs < ts.LSafe || ts.UObs > ts.USafe {
		ts.RangeVeto = true
	}
	return ts.RangeVeto
}
