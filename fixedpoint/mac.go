package fixedpoint

import (
	"math"

	"certifiable-quant/faultset"
)

// MulQ1616 multiplies two Q16.16 values, widening to int64, rounding the
// fractional remainder to nearest-even, and saturating the result to int32.
func MulQ1616(a, b Q1616) (Q1616, faultset.Set) {
	wide := int64(a) * int64(b)
	r, faults := RoundShiftRNE(wide, ScaleBitsQ1616)
	return Q1616(r), faults
}

// DivQ1616 divides a by b in Q16.16, rounding to nearest with ties to even.
// b == 0 raises DivZero and returns 0.
func DivQ1616(a, b Q1616) (Q1616, faultset.Set) {
	var faults faultset.Set
	if b == 0 {
		faults.Raise(faultset.DivZero)
		return 0, faults
	}
	num := int64(a) << ScaleBitsQ1616
	q := divRoundNearestEven(num, int64(b))
	r32, sat := ClampToInt32(q)
	faults.Merge(sat)
	return Q1616(r32), faults
}

// divRoundNearestEven divides num by den (den != 0) with round-to-nearest,
// ties-to-even. It generalizes RoundShiftRNE's tie-break logic from
// power-of-two shifts to an arbitrary divisor by normalizing the sign of
// the denominator first.
func divRoundNearestEven(num, den int64) int64 {
	d, n := den, num
	if d < 0 {
		d, n = -d, -n
	}
	q := n / d
	r := n % d
	// Compare 2r against d rather than r against d/2, so an odd divisor
	// never turns a below-half remainder into a tie.
	switch {
	case 2*r > d:
		q++
	case 2*r < -d:
		q--
	case 2*r == d:
		q += q & 1
	case 2*r == -d:
		q -= q & 1
	}
	return q
}

// MAC accumulates a*b into acc (a Q32.32 accumulator) with saturation.
func MAC(acc int64, a, b Q1616) (int64, faultset.Set) {
	prod := int64(a) * int64(b)
	return Add64Sat(acc, prod)
}

// AccumulatorToQ1616 converts a Q32.32 accumulator back to Q16.16 via
// round-to-nearest-even.
func AccumulatorToQ1616(acc int64) (Q1616, faultset.Set) {
	r, faults := RoundShiftRNE(acc, ScaleBitsQ1616)
	return Q1616(r), faults
}

// safetyThreshold is 2^63, the overflow-safety bound from §3/§4.1.
const safetyThreshold = uint64(1) << 63

// OverflowProof is the per-layer overflow-safety witness: it proves
// n*w*x < 2^63, or records why it does not.
type OverflowProof struct {
	MaxWeightMag  uint32
	MaxInputMag   uint32
	DotProductLen uint32
	SafetyMargin  uint64
	IsSafe        bool
}

// ComputeOverflowProof builds the overflow-safety witness for a linear layer
// with up to dotProductLen terms of magnitude at most maxWeightMag *
// maxInputMag each. When any factor is zero the product is zero and the
// proof is trivially safe with the maximal margin.
func ComputeOverflowProof(maxWeightMag, maxInputMag, dotProductLen uint32) OverflowProof {
	p := OverflowProof{MaxWeightMag: maxWeightMag, MaxInputMag: maxInputMag, DotProductLen: dotProductLen}
	if maxWeightMag == 0 || maxInputMag == 0 || dotProductLen == 0 {
		p.IsSafe = true
		p.SafetyMargin = safetyThreshold
		return p
	}
	// uint32 * uint32, staged through uint64: the first product never
	// overflows uint64 (max 4294967295^2 < 2^64-1), so only the second
	// multiplication needs a pre-check.
	step1 := uint64(dotProductLen) * uint64(maxWeightMag)
	if uint64(maxInputMag) > math.MaxUint64/step1 {
		p.IsSafe = false
		p.SafetyMargin = 0
		return p
	}
	product := step1 * uint64(maxInputMag)
	if product < safetyThreshold {
		p.IsSafe = true
		p.SafetyMargin = safetyThreshold - product
	} else {
		p.IsSafe = false
		p.SafetyMargin = 0
	}
	return p
}

// IsSafeAt is a convenience used by the overflow-monotonicity invariant
// (§8): IsSafeAt holds for every smaller dotProductLen once it holds at n,
// and fails for every larger dotProductLen once it fails at n.
func IsSafeAt(maxWeightMag, maxInputMag, dotProductLen uint32) bool {
	return ComputeOverflowProof(maxWeightMag, maxInputMag, dotProductLen).IsSafe
}
