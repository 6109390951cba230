package analyze

import (
	"fmt"

	"certifiable-quant/digest"
	"certifiable-quant/faultset"
	"certifiable-quant/fixedpoint"
)

// ErrorContribution computes a linear layer's local error contributions
// from its weight/input/output scale exponents and the layer's maximum
// input norm (§4.3). The bias term takes weightExp and inputExp as
// separate parameters rather than assuming S_x = S_w (§9 Open Question):
// 1/(2*S_w*S_x) is the general form, and it collapses to the source's
// 0.5/S_w^2 exactly when the dyadic constraint also pins S_x == S_w.
func ErrorContribution(weightExp, inputExp, outputExp fixedpoint.ScaleExp, maxInputNorm float64) (weightErr, biasErr, projErr, local float64) {
	sw := weightExp.Scale()
	sx := inputExp.Scale()
	so := outputExp.Scale()
	weightErr = (0.5 / sw) * maxInputNorm
	biasErr = 1.0 / (2.0 * sw * sx)
	projErr = 0.5 / so
	local = weightErr + biasErr + projErr
	return
}

// LayerContract is the per-layer error contract (§3 "Layer error
// contract"): amplification factor, local error contributions, the
// input/output error bounds they connect, and the contained overflow
// proof.
type LayerContract struct {
	Amplification float64 // A_l, an operator-norm upper bound; identity maps take 1
	WeightErr     float64
	BiasErr       float64
	ProjErr       float64
	InputBound    float64 // ε_l
	OutputBound   float64 // ε_{l+1}
	Overflow      fixedpoint.OverflowProof
}

// AnalysisContext accumulates the layer chain and the running error bound
// (§3 "Analysis context").
type AnalysisContext struct {
	EntryError float64
	Layers     []LayerContract
	TotalBound float64
	IsComplete bool
	IsValid    bool
	Faults     faultset.Set
}

// NewAnalysisContext seeds ε0 = 1/(2*S_in) from the input scale exponent.
func NewAnalysisContext(inputScaleExp fixedpoint.ScaleExp) *AnalysisContext {
	eps0 := 1.0 / (2.0 * inputScaleExp.Scale())
	return &AnalysisContext{EntryError: eps0, TotalBound: eps0, IsValid: true}
}

// AppendLayer applies the recurrence ε_{l+1} = A_l*ε_l + local_l, where
// local_l = weightErr + biasErr + projErr, and records the resulting
// contract. Panics if amplification < 0: the operator-norm invariant A_l
// >= 0 is a construction-time programmer error, not a runtime fault (the
// teacher's own constructors, e.g. PIOP/bound_spec.go's NewLinfChainSpec,
// panic on malformed parameters the same way).
func (ctx *AnalysisContext) AppendLayer(amplification, weightErr, biasErr, projErr float64, overflow fixedpoint.OverflowProof) LayerContract {
	if amplification < 0 {
		panic("analyze: amplification factor must be >= 0")
	}
	local := weightErr + biasErr + projErr
	inputBound := ctx.TotalBound
	outputBound := amplification*inputBound + local
	lc := LayerContract{
		Amplification: amplification,
		WeightErr:     weightErr,
		BiasErr:       biasErr,
		ProjErr:       projErr,
		InputBound:    inputBound,
		OutputBound:   outputBound,
		Overflow:      overflow,
	}
	ctx.Layers = append(ctx.Layers, lc)
	ctx.TotalBound = outputBound
	if !overflow.IsSafe {
		ctx.Faults.Raise(faultset.Overflow)
	}
	return lc
}

// MarkAsymmetric records an encountered asymmetric quantization spec:
// asymmetric is fatal and invalidates the context — no digest can be
// produced (§4.3 "Failure modes").
func (ctx *AnalysisContext) MarkAsymmetric() {
	ctx.Faults.Raise(faultset.Asymmetric)
	ctx.IsValid = false
}

// MarkUnfoldedBN records an encountered unfolded-BatchNorm layer: fatal,
// but does not by itself invalidate the context (the fatal bit blocks
// downstream certification via the fault discipline in §7).
func (ctx *AnalysisContext) MarkUnfoldedBN() {
	ctx.Faults.Raise(faultset.UnfoldedBN)
}

// Finalize marks the context complete once every layer has been appended.
func (ctx *AnalysisContext) Finalize() {
	ctx.IsComplete = true
}

// AnalysisDigest is the fixed-layout record Certify consumes (§3
// "Digests").
type AnalysisDigest struct {
	EntryError      float64
	TotalBound      float64
	LayerCount      uint32
	OverflowSafeCnt uint32
	LayerHash       [32]byte
}

// Digest produces the analysis digest. It fails if the context is invalid
// (an asymmetric spec was encountered) or incomplete.
func (ctx *AnalysisContext) Digest() (AnalysisDigest, error) {
	if !ctx.IsValid {
		return AnalysisDigest{}, fmt.Errorf("analyze: context invalid, no digest (asymmetric spec encountered)")
	}
	if !ctx.IsComplete {
		return AnalysisDigest{}, fmt.Errorf("analyze: context incomplete, no digest")
	}
	safe := uint32(0)
	for _, l := range ctx.Layers {
		if l.Overflow.IsSafe {
			safe++
		}
	}
	return AnalysisDigest{
		EntryError:      ctx.EntryError,
		TotalBound:      ctx.TotalBound,
		LayerCount:      uint32(len(ctx.Layers)),
		OverflowSafeCnt: safe,
		LayerHash:       hashLayerContracts(ctx.Layers),
	}, nil
}

// Hash returns the SHA-256 over the digest's canonical little-endian
// serialization, for binding into the certificate (§5 "Ordering
// guarantees").
func (d AnalysisDigest) Hash() [32]byte {
	h := digest.NewHasher()
	h.WriteFloat64LE(d.EntryError)
	h.WriteFloat64LE(d.TotalBound)
	h.WriteUint32LE(d.LayerCount)
	h.WriteUint32LE(d.OverflowSafeCnt)
	h.WriteBytes(d.LayerHash[:])
	return h.Sum()
}

// hashLayerContracts is the 32-byte SHA-256 over the canonical,
// fixed-layout, little-endian serialization of every layer contract, in
// array-index order (§5 "Ordering guarantees").
func hashLayerContracts(layers []LayerContract) [32]byte {
	h := digest.NewHasher()
	for _, l := range layers {
		h.WriteFloat64LE(l.Amplification)
		h.WriteFloat64LE(l.WeightErr)
		h.WriteFloat64LE(l.BiasErr)
		h.WriteFloat64LE(l.ProjErr)
		h.WriteFloat64LE(l.InputBound)
		h.WriteFloat64LE(l.OutputBound)
		h.WriteUint32LE(l.Overflow.MaxWeightMag)
		h.WriteUint32LE(l.Overflow.MaxInputMag)
		h.WriteUint32LE(l.Overflow.DotProductLen)
		h.WriteUint64LE(l.Overflow.SafetyMargin)
		if l.Overflow.IsSafe {
			h.WriteBytes([]byte{1})
		} else {
			h.WriteBytes([]byte{0})
		}
	}
	return h.Sum()
}
