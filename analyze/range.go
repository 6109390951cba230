// Package analyze implements the Theorist: static interval-arithmetic range
// propagation, operator-norm amplification bounds, and the closed-form
// error recurrence that produces the analysis digest consumed by
// Calibrate, Convert, and Verify.
package analyze

import "math"

// Interval is a closed real interval [Lo, Hi].
type Interval struct {
	Lo, Hi float64
}

// hull returns the smallest interval containing all of xs.
func hull(xs ...float64) Interval {
	iv := Interval{Lo: math.Inf(1), Hi: math.Inf(-1)}
	for _, x := range xs {
		if x < iv.Lo {
			iv.Lo = x
		}
		if x > iv.Hi {
			iv.Hi = x
		}
	}
	return iv
}

// Add returns the componentwise sum of two intervals.
func (iv Interval) Add(other Interval) Interval {
	return Interval{Lo: iv.Lo + other.Lo, Hi: iv.Hi + other.Hi}
}

// PropagateLinear returns the range of a single tap `w*x + bias`: the hull
// of the four corner products of the weight range w and input range x,
// plus the optional bias range. It does not multiply by a dot-product
// length n; the result covers one w*x term, not an n-term sum.
func PropagateLinear(w, x Interval, bias *Interval) Interval {
	out := hull(w.Lo*x.Lo, w.Lo*x.Hi, w.Hi*x.Lo, w.Hi*x.Hi)
	if bias != nil {
		out = out.Add(*bias)
	}
	return out
}

// ReLU maps [a,b] to [max(a,0), max(b,0)].
func ReLU(iv Interval) Interval {
	return Interval{Lo: math.Max(iv.Lo, 0), Hi: math.Max(iv.Hi, 0)}
}
