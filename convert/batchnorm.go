package convert

import (
	"fmt"
	"math"

	"certifiable-quant/analyze"
	"certifiable-quant/digest"
	"certifiable-quant/faultset"
)

// BatchNormFold is the result of folding a BatchNorm layer into the
// preceding linear layer's weight and bias (§4.5 "BatchNorm folding").
type BatchNormFold struct {
	Scale           []float64
	Offset          []float64
	FoldedWeight    analyze.Matrix
	FoldedBias      []float32
	BeforeHash      [32]byte
	AfterHash       [32]byte
	FoldingOccurred bool
}

// FoldBatchNorm combines per-channel gamma/beta/mu/sigma2 and a scalar
// epsilon with weight matrix w (rows = channels) and an optional bias
// (nil treated as all-zero), producing the folded weight/bias and the
// before/after SHA-256 hashes. Returns a DivZero fault and an error when
// any channel's sigma2+eps is non-positive.
func FoldBatchNorm(gamma, beta, mu, sigma2 []float64, eps float64, w analyze.Matrix, bias []float32) (*BatchNormFold, faultset.Set, error) {
	var faults faultset.Set
	n := w.Rows
	if bias == nil {
		bias = make([]float32, n)
	}

	scale := make([]float64, n)
	offset := make([]float64, n)
	foldedData := make([]float32, len(w.Data))
	foldedBias := make([]float32, n)

	for i := 0; i < n; i++ {
		variance := sigma2[i] + eps
		if variance <= 0 {
			faults.Raise(faultset.DivZero)
			return nil, faults, fmt.Errorf("convert: batchnorm channel %d has non-positive variance %v", i, variance)
		}
		invStd := 1.0 / math.Sqrt(variance)
		s := gamma[i] * invStd
		o := beta[i] - mu[i]*s
		scale[i] = s
		offset[i] = o

		for j := 0; j < w.Cols; j++ {
			v := float64(w.Data[i*w.Cols+j]) * s
			foldedData[i*w.Cols+j] = float32(v)
		}
		foldedBias[i] = float32(float64(bias[i])*s + o)
	}

	folded := analyze.Matrix{Rows: w.Rows, Cols: w.Cols, Data: foldedData}
	return &BatchNormFold{
		Scale:           scale,
		Offset:          offset,
		FoldedWeight:    folded,
		FoldedBias:      foldedBias,
		BeforeHash:      hashBNBefore(gamma, beta, mu, sigma2, eps),
		AfterHash:       hashBNAfter(folded, foldedBias),
		FoldingOccurred: true,
	}, faults, nil
}

// hashBNBefore hashes the canonical little-endian serialization of
// (gamma || beta || mu || sigma2 || eps), in that order.
func hashBNBefore(gamma, beta, mu, sigma2 []float64, eps float64) [32]byte {
	h := digest.NewHasher()
	for _, v := range gamma {
		h.WriteFloat64LE(v)
	}
	for _, v := range beta {
		h.WriteFloat64LE(v)
	}
	for _, v := range mu {
		h.WriteFloat64LE(v)
	}
	for _, v := range sigma2 {
		h.WriteFloat64LE(v)
	}
	h.WriteFloat64LE(eps)
	return h.Sum()
}

// hashBNAfter hashes the canonical little-endian serialization of
// (W' || b'), row-major weight followed by bias.
func hashBNAfter(w analyze.Matrix, bias []float32) [32]byte {
	h := digest.NewHasher()
	for _, v := range w.Data {
		h.WriteFloat64LE(float64(v))
	}
	for _, v := range bias {
		h.WriteFloat64LE(float64(v))
	}
	return h.Sum()
}
