package calibrate

import (
	"certifiable-quant/config"
	"certifiable-quant/digest"
	"certifiable-quant/faultset"
)

// Report is the Observer's output: per-tensor statistics, the aggregated
// coverage summary, and the two veto outcomes (§4.4 "Report"). The range
// veto is fail-closed: any tensor observed outside its claimed safe range
// blocks certification outright. The coverage veto is a warning: low
// coverage does not by itself invalidate the run, it only marks the
// calibration as non-exhaustive.
type Report struct {
	DatasetHash  [32]byte
	SampleCount  int
	Tensors      []*TensorStats
	Coverage     CoverageSummary
	RangeVeto    bool
	CoverageVeto bool
	Faults       faultset.Set
}

// Build runs the range and coverage vetoes over tensors, already folded
// with their observed samples, producing the Observer's report.
func Build(cfg config.Calibrate, datasetHash [32]byte, sampleCount int, tensors []*TensorStats) *Report {
	r := &Report{
		DatasetHash: datasetHash,
		SampleCount: sampleCount,
		Tensors:     tensors,
	}

	coverages := make([]float64, len(tensors))
	for i, ts := range tensors {
		coverages[i] = ts.Coverage(cfg.DegenerateEpsilon)
		if ts.CheckRangeVeto() {
			r.RangeVeto = true
		}
	}
	if r.RangeVeto {
		r.Faults.Raise(faultset.RangeExceed)
	}

	r.Coverage = SummarizeCoverage(coverages)
	if r.Coverage.Min < cfg.CoverageMinThreshold || r.Coverage.P10 < cfg.CoverageP10Threshold {
		r.CoverageVeto = true
	}
	return r
}

// Passed reports whether the fail-closed range veto allowed calibration
// to proceed, independent of the coverage warning.
func (r *Report) Passed() bool {
	return !r.RangeVeto
}

// PassedFull additionally requires the coverage veto be clear: this is
// the discipline a strict-mode caller enforces end to end.
func (r *Report) PassedFull() bool {
	return r.Passed() && !r.CoverageVeto
}

// Digest is the fixed-layout record Certify consumes (§3 "Digests").
type Digest struct {
	DatasetHash        [32]byte
	SampleCount        uint32
	TensorCount        uint32
	CoverageMin        float64
	CoverageP10        float64
	RangeVetoTriggered bool
	CoverageVetoFlag   bool
}

// Digest reduces the report to its fixed-layout record.
func (r *Report) Digest() Digest {
	return Digest{
		DatasetHash:        r.DatasetHash,
		SampleCount:        uint32(r.SampleCount),
		TensorCount:        uint32(len(r.Tensors)),
		CoverageMin:        r.Coverage.Min,
		CoverageP10:        r.Coverage.P10,
		RangeVetoTriggered: r.RangeVeto,
		CoverageVetoFlag:   r.CoverageVeto,
	}
}

// Hash returns the SHA-256 over the digest's canonical little-endian
// serialization, for binding into the certificate (§5 "Ordering
// guarantees").
func (d Digest) Hash() [32]byte {
	h := digest.NewHasher()
	h.WriteBytes(d.DatasetHash[:])
	h.WriteUint32LE(d.SampleCount)
	h.WriteUint32LE(d.TensorCount)
	h.WriteFloat64LE(d.CoverageMin)
	h.WriteFloat64LE(d.CoverageP10)
	if d.RangeVetoTriggered {
		h.WriteBytes([]byte{1})
	} else {
		h.WriteBytes([]byte{0})
	}
	if d.CoverageVetoFlag {
		h.WriteBytes([]byte{1})
	} else {
		h.WriteBytes([]byte{0})
	}
	return h.Sum()
}
