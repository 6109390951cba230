package verify

import (
	"certifiable-quant/digest"
	"certifiable-quant/faultset"
)

// LayerResult pairs one layer's theoretical bound with its measured error
// statistics and the bound-check outcome.
type LayerResult struct {
	Name            string
	Theoretical     float64
	Measured        RunningStats
	BoundSatisfied  bool
}

// checkBound implements `bound_satisfied <=> max_measured <= theoretical`;
// exact equality counts as satisfied.
func checkBound(theoretical float64, measured RunningStats) bool {
	return measured.Max <= theoretical
}

// Report is the Judge's output (§4.6 "Bound check"): layer-wise results
// checked in order (any failure continues so every failing layer is
// exposed) and the total bound check.
type Report struct {
	DatasetHash         [32]byte
	SampleCount         int
	Layers              []LayerResult
	AllBoundsSatisfied  bool
	TotalTheoretical    float64
	TotalMeasured       RunningStats
	TotalBoundSatisfied bool
	Faults              faultset.Set
}

// Build checks every layer's bound against its measured statistics, then
// the total bound, accumulating the BoundViolation fault on any failure.
func Build(datasetHash [32]byte, sampleCount int, layers []LayerResult, totalTheoretical float64, totalMeasured RunningStats) *Report {
	r := &Report{
		DatasetHash:      datasetHash,
		SampleCount:      sampleCount,
		TotalTheoretical: totalTheoretical,
		TotalMeasured:    totalMeasured,
	}
	r.AllBoundsSatisfied = true
	for i := range layers {
		layers[i].BoundSatisfied = checkBound(layers[i].Theoretical, layers[i].Measured)
		if !layers[i].BoundSatisfied {
			r.AllBoundsSatisfied = false
		}
	}
	r.Layers = layers

	r.TotalBoundSatisfied = checkBound(totalTheoretical, totalMeasured)
	if !r.TotalBoundSatisfied {
		r.Faults.Raise(faultset.BoundViolation)
	}
	if !r.AllBoundsSatisfied {
		r.Faults.Raise(faultset.BoundViolation)
	}
	return r
}

// SatisfiedCount returns the number of layers whose bound check passed.
func (r *Report) SatisfiedCount() int {
	n := 0
	for _, l := range r.Layers {
		if l.BoundSatisfied {
			n++
		}
	}
	return n
}

// Digest is the fixed-layout record Certify consumes (§4.6 "Digest").
type Digest struct {
	DatasetHash      [32]byte
	SampleCount      uint32
	SatisfiedCount   uint32
	TotalTheoretical float64
	TotalMeasured    float64
	Passed           bool
}

// Digest reduces the report to its fixed-layout record: Passed is true
// iff both the layer-wise and total bounds are satisfied.
func (r *Report) Digest() Digest {
	return Digest{
		DatasetHash:      r.DatasetHash,
		SampleCount:      uint32(r.SampleCount),
		SatisfiedCount:   uint32(r.SatisfiedCount()),
		TotalTheoretical: r.TotalTheoretical,
		TotalMeasured:    r.TotalMeasured.Max,
		Passed:           r.AllBoundsSatisfied && r.TotalBoundSatisfied,
	}
}

// Hash returns the SHA-256 over the digest's canonical little-endian
// serialization, for binding into the certificate.
func (d Digest) Hash() [32]byte {
	h := digest.NewHasher()
	h.WriteBytes(d.DatasetHash[:])
	h.WriteUint32LE(d.SampleCount)
	h.WriteUint32LE(d.SatisfiedCount)
	h.WriteFloat64LE(d.TotalTheoretical)
	h.WriteFloat64LE(d.TotalMeasured)
	if d.Passed {
		h.WriteBytes([]byte{1})
	} else {
		h.WriteBytes([]byte{0})
	}
	return h.Sum()
}
