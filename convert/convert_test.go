package convert

import (
	"math"
	"testing"

	"certifiable-quant/analyze"
	"certifiable-quant/faultset"
	"certifiable-quant/fixedpoint"
)

func TestQuantizeTiesToEven(t *testing.T) {
	// 0.5 + 1.5 at scale 2^0: exact .5 ties must round to the even integer.
	got, f := Quantize(0.5, fixedpoint.ScaleExp(0))
	if got != 0 {
		t.Fatalf("Quantize(0.5) = %d, want 0 (tie to even)", got)
	}
	if f.Any() {
		t.Fatalf("unexpected fault on in-range value")
	}
	got, _ = Quantize(1.5, fixedpoint.ScaleExp(0))
	if got != 2 {
		t.Fatalf("Quantize(1.5) = %d, want 2 (tie to even)", got)
	}
}

func TestQuantizeSaturatesAndFlagsOverflow(t *testing.T) {
	got, f := Quantize(1e30, fixedpoint.ScaleExp(16))
	if got != math.MaxInt32 {
		t.Fatalf("Quantize overflow = %d, want MaxInt32", got)
	}
	if !f.Has(faultset.Overflow) {
		t.Fatalf("expected Overflow fault on saturation")
	}
}

func TestQuantizeSliceMergesFaults(t *testing.T) {
	out, f := QuantizeSlice([]float32{1, 2, 1e30}, fixedpoint.ScaleExp(16))
	if len(out) != 3 {
		t.Fatalf("expected 3 outputs")
	}
	if !f.Has(faultset.Overflow) {
		t.Fatalf("expected merged Overflow fault from the last element")
	}
}

func TestDyadicValid(t *testing.T) {
	if !DyadicValid(16, 16, 32) {
		t.Fatalf("16+16=32 should satisfy the dyadic constraint")
	}
	if DyadicValid(16, 16, 30) {
		t.Fatalf("16+16!=30 should violate the dyadic constraint")
	}
	if err := CheckDyadic(16, 16, 30); err == nil {
		t.Fatalf("expected dyadic violation error")
	}
}

func TestEnforceSymmetricFailsClosed(t *testing.T) {
	f, err := EnforceSymmetric(false)
	if err == nil {
		t.Fatalf("expected error for asymmetric spec")
	}
	if !f.Has(faultset.Asymmetric) {
		t.Fatalf("expected Asymmetric fault raised")
	}
	if f2, err := EnforceSymmetric(true); err != nil || f2.Any() {
		t.Fatalf("symmetric spec must pass cleanly")
	}
}

func TestFoldBatchNormMatchesHandComputation(t *testing.T) {
	gamma := []float64{2.0}
	beta := []float64{1.0}
	mu := []float64{0.5}
	sigma2 := []float64{3.0}
	eps := 1.0 // variance = 4 -> invStd = 0.5
	w := analyze.Matrix{Rows: 1, Cols: 2, Data: []float32{4, -2}}
	bias := []float32{1}

	fold, faults, err := FoldBatchNorm(gamma, beta, mu, sigma2, eps, w, bias)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if faults.Any() {
		t.Fatalf("unexpected fault on well-formed BN fold")
	}
	if !fold.FoldingOccurred {
		t.Fatalf("expected FoldingOccurred true")
	}
	wantScale := 1.0 // gamma*invStd = 2*0.5
	if math.Abs(fold.Scale[0]-wantScale) > 1e-12 {
		t.Fatalf("scale = %v, want %v", fold.Scale[0], wantScale)
	}
	wantOffset := 0.5 // beta - mu*scale = 1 - 0.5*1
	if math.Abs(fold.Offset[0]-wantOffset) > 1e-12 {
		t.Fatalf("offset = %v, want %v", fold.Offset[0], wantOffset)
	}
	wantWeight := []float32{4, -2} // W*scale with scale=1
	for i, v := range wantWeight {
		if fold.FoldedWeight.Data[i] != v {
			t.Fatalf("foldedWeight[%d] = %v, want %v", i, fold.FoldedWeight.Data[i], v)
		}
	}
	wantBias := float32(1.5) // bias*scale + offset = 1*1 + 0.5
	if fold.FoldedBias[0] != wantBias {
		t.Fatalf("foldedBias = %v, want %v", fold.FoldedBias[0], wantBias)
	}
}

func TestFoldBatchNormDivZero(t *testing.T) {
	gamma := []float64{1}
	beta := []float64{0}
	mu := []float64{0}
	sigma2 := []float64{-1}
	w := analyze.Matrix{Rows: 1, Cols: 1, Data: []float32{1}}
	_, faults, err := FoldBatchNorm(gamma, beta, mu, sigma2, 1, w, nil)
	if err == nil {
		t.Fatalf("expected error on non-positive variance")
	}
	if !faults.Has(faultset.DivZero) {
		t.Fatalf("expected DivZero fault")
	}
}

func TestBatchNormHashesDifferBeforeAndAfter(t *testing.T) {
	gamma := []float64{2.0}
	beta := []float64{0.0}
	mu := []float64{0.0}
	sigma2 := []float64{3.0}
	w := analyze.Matrix{Rows: 1, Cols: 1, Data: []float32{5}}
	fold, _, err := FoldBatchNorm(gamma, beta, mu, sigma2, 1, w, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fold.BeforeHash == fold.AfterHash {
		t.Fatalf("before/after hashes should differ for a non-trivial fold")
	}
}
