// Package convert implements the Transformer: the symmetric quantization
// kernel, the per-layer dyadic-scale check, and BatchNorm folding.
package convert

import (
	"math"

	"certifiable-quant/faultset"
	"certifiable-quant/fixedpoint"
)

// roundTiesToEven rounds x to the nearest integer, breaking exact
// halfway ties toward the even integer (§4.5 "detect halfway exactness
// by scaled - floor == 0.5 and flip toward even").
func roundTiesToEven(x float64) float64 {
	floor := math.Floor(x)
	diff := x - floor
	switch {
	case diff < 0.5:
		return floor
	case diff > 0.5:
		return floor + 1
	default:
		if math.Mod(floor, 2) == 0 {
			return floor
		}
		return floor + 1
	}
}

// Quantize maps an FP32 value into the fixed-point encoding at the given
// scale exponent: scaled = w*2^n, rounded ties-to-even, saturated to
// int32 with the matching fault raised on either rail.
func Quantize(w float32, scaleExp fixedpoint.ScaleExp) (int32, faultset.Set) {
	scaled := float64(w) * scaleExp.Scale()
	rounded := roundTiesToEven(scaled)

	if rounded >= math.MaxInt64 {
		var f faultset.Set
		f.Raise(faultset.Overflow)
		return math.MaxInt32, f
	}
	if rounded < math.MinInt64 {
		var f faultset.Set
		f.Raise(faultset.Underflow)
		return math.MinInt32, f
	}
	return fixedpoint.ClampToInt32(int64(rounded))
}

// QuantizeSlice quantizes every element of ws at the given scale exponent,
// merging the fault sets raised by each element.
func QuantizeSlice(ws []float32, scaleExp fixedpoint.ScaleExp) ([]int32, faultset.Set) {
	var merged faultset.Set
	out := make([]int32, len(ws))
	for i, w := range ws {
		q, f := Quantize(w, scaleExp)
		out[i] = q
		merged.Merge(f)
	}
	return out, merged
}
