// Package verify implements the Judge: L-infinity error measurement
// between reference and quantized outputs, running statistical
// aggregation, and the bound-check discipline that produces the
// verification digest.
package verify

import (
	"math"

	"certifiable-quant/fixedpoint"
)

// LinfFloat returns max_i |a[i]-b[i]| under f64 arithmetic. A length
// mismatch or either input being empty returns 0 (§4.6 "Error
// measurement").
func LinfFloat(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var max float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > max {
			max = d
		}
	}
	return max
}

// LinfQ1616 decodes a paired Q16.16 encoding before comparing under the
// same L-infinity measurement.
func LinfQ1616(a, b []fixedpoint.Q1616) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	scale := fixedpoint.ScaleExp(fixedpoint.ScaleBitsQ1616).Scale()
	var max float64
	for i := range a {
		da := float64(a[i]) / scale
		db := float64(b[i]) / scale
		d := math.Abs(da - db)
		if d > max {
			max = d
		}
	}
	return max
}
