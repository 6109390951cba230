// Package pipeline implements the single-threaded cooperative driver that
// sequences Analyze, Calibrate, Convert, Verify, and Certify, short-
// circuiting on any fail-closed fault (§5 "Concurrency & resource model",
// §7 "Error handling design"). Each stage's digest is passed by value to
// the next; no stage retains a mutable reference to a prior stage's state.
package pipeline

import (
	"fmt"
	"time"

	"certifiable-quant/analyze"
	"certifiable-quant/calibrate"
	"certifiable-quant/certificate"
	"certifiable-quant/config"
	"certifiable-quant/convert"
	"certifiable-quant/faultset"
	"certifiable-quant/fixedpoint"
	"certifiable-quant/internal/prof"
	"certifiable-quant/modelformat"
	"certifiable-quant/verify"
)

// LayerSpec is one layer's contribution to the analysis stage: the
// amplification bound, its local error terms, the layer's overflow
// proof, and the two failure-mode flags analysis can encounter per
// layer (§4.3 "Failure modes").
type LayerSpec struct {
	Amplification float64
	WeightErr     float64
	BiasErr       float64
	ProjErr       float64
	Overflow      fixedpoint.OverflowProof
	Asymmetric    bool
	UnfoldedBN    bool
}

// AnalyzeInput seeds the Theorist stage.
type AnalyzeInput struct {
	InputScaleExp fixedpoint.ScaleExp
	Layers        []LayerSpec
}

// CalibrateInput seeds the Observer stage. Tensors are expected to
// already have their samples folded in via TensorStats.Observe.
type CalibrateInput struct {
	DatasetHash [32]byte
	SampleCount int
	Tensors     []*calibrate.TensorStats
}

// ConvertInput carries the Transformer stage's already-computed outputs:
// the source/target identity hashes Certify needs, and the (optional)
// BatchNorm fold record. Quantization and dyadic checks happen upstream
// of the driver, against the collaborator-supplied layer graph (§6
// "Collaborator contracts"); any faults they raised are folded in here.
type ConvertInput struct {
	SourceHash    []byte
	QuantizedHash []byte
	ParamCount    uint64
	LayerCount    uint32
	TargetFormat  config.TargetFormat
	BNFold        *convert.BatchNormFold // nil when no BatchNorm layer was present
	Faults        faultset.Set

	// ModelLayers and ModelPayload, when non-nil, let Run assemble the
	// quantized model container (§6 "Quantized model binary format")
	// alongside the certificate, stamped with the certificate's Merkle
	// root as its back-reference. Both are optional: a caller that only
	// wants the certificate may leave them nil.
	ModelLayers  []modelformat.LayerHeader
	ModelPayload []byte
}

// VerifyInput seeds the Judge stage.
type VerifyInput struct {
	DatasetHash      [32]byte
	SampleCount      int
	Layers           []verify.LayerResult
	TotalTheoretical float64
	TotalMeasured    verify.RunningStats
}

// Options tunes the three configurable stages and the certificate's
// recorded tool version.
type Options struct {
	Analyze     config.Analyze
	Calibrate   config.Calibrate
	Verify      config.Verify
	ToolVersion uint32
	Now         func() uint64 // injected for determinism; defaults to wall-clock UTC seconds
}

// Result is the outcome of one end-to-end pipeline run.
type Result struct {
	Analysis      *analyze.AnalysisDigest
	Calibration   *calibrate.Digest
	Verification  *verify.Digest
	Certificate   *certificate.Certificate
	Model         *modelformat.Model // nil unless ConvertInput.ModelLayers was supplied
	Faults        faultset.Set
	AbortedAt     string // empty on success, else the stage name that blocked certification
}

func defaultNow() uint64 {
	return uint64(time.Now().UTC().Unix())
}

// Run sequences Analyze -> Calibrate -> Convert -> Verify -> Certify,
// aborting at the first stage whose fail-closed fault blocks downstream
// stages (§7 "Fail-closed faults": div_zero, range_exceed, unfolded_bn,
// asymmetric, bound_violation). Overflow/underflow are recorded but never
// abort the pipeline on their own.
func Run(opts Options, ai AnalyzeInput, ci CalibrateInput, cv ConvertInput, vi VerifyInput) (*Result, error) {
	now := opts.Now
	if now == nil {
		now = defaultNow
	}
	result := &Result{}

	// --- Analyze ---
	stageStart := time.Now()
	ctx := analyze.NewAnalysisContext(ai.InputScaleExp)
	for _, l := range ai.Layers {
		if l.Asymmetric {
			ctx.MarkAsymmetric()
		}
		if l.UnfoldedBN {
			ctx.MarkUnfoldedBN()
		}
		ctx.AppendLayer(l.Amplification, l.WeightErr, l.BiasErr, l.ProjErr, l.Overflow)
	}
	ctx.Finalize()
	result.Faults.Merge(ctx.Faults)

	analysisDigest, err := ctx.Digest()
	if err != nil {
		result.AbortedAt = "analyze"
		return result, fmt.Errorf("pipeline: analyze stage failed: %w", err)
	}
	result.Analysis = &analysisDigest
	prof.Track(stageStart, "analyze")
	if ctx.Faults.HasFatal() {
		result.AbortedAt = "analyze"
		return result, fmt.Errorf("pipeline: analyze stage raised a fatal fault, aborting")
	}

	// --- Calibrate ---
	stageStart = time.Now()
	calibReport := calibrate.Build(opts.Calibrate, ci.DatasetHash, ci.SampleCount, ci.Tensors)
	result.Faults.Merge(calibReport.Faults)
	calibDigest := calibReport.Digest()
	result.Calibration = &calibDigest
	prof.Track(stageStart, "calibrate")
	if !calibReport.Passed() {
		result.AbortedAt = "calibrate"
		return result, fmt.Errorf("pipeline: calibration range veto triggered, aborting")
	}

	// --- Convert ---
	stageStart = time.Now()
	result.Faults.Merge(cv.Faults)
	prof.Track(stageStart, "convert")
	if result.Faults.HasFatal() {
		result.AbortedAt = "convert"
		return result, fmt.Errorf("pipeline: convert stage raised a fatal fault, aborting")
	}

	// --- Verify ---
	stageStart = time.Now()
	verifyReport := verify.Build(vi.DatasetHash, vi.SampleCount, vi.Layers, vi.TotalTheoretical, vi.TotalMeasured)
	result.Faults.Merge(verifyReport.Faults)
	verifyDigest := verifyReport.Digest()
	result.Verification = &verifyDigest
	prof.Track(stageStart, "verify")
	if !verifyDigest.Passed {
		result.AbortedAt = "verify"
		return result, fmt.Errorf("pipeline: verification bound violated, aborting")
	}

	// --- Certify ---
	stageStart = time.Now()
	builder := certificate.NewBuilder()
	builder.SetVersion(opts.ToolVersion)

	bnHash := make([]byte, 32)
	folded := cv.BNFold != nil
	if folded {
		after := cv.BNFold.AfterHash
		bnHash = after[:]
	}
	if err := builder.SetSourceIdentity(cv.SourceHash, bnHash, folded); err != nil {
		result.AbortedAt = "certify"
		return result, fmt.Errorf("pipeline: certify source identity: %w", err)
	}

	analysisHash := analysisDigest.Hash()
	calibHash := calibDigest.Hash()
	verifyHash := verifyDigest.Hash()
	if err := builder.SetDigests(analysisHash[:], calibHash[:], verifyHash[:],
		analysisDigest.EntryError, analysisDigest.TotalBound, verifyDigest.TotalMeasured); err != nil {
		result.AbortedAt = "certify"
		return result, fmt.Errorf("pipeline: certify digests: %w", err)
	}

	if err := builder.SetTargetIdentity(cv.QuantizedHash, cv.ParamCount, cv.LayerCount); err != nil {
		result.AbortedAt = "certify"
		return result, fmt.Errorf("pipeline: certify target identity: %w", err)
	}
	builder.SetFormat(byte(cv.TargetFormat))
	builder.SetSymmetricScope(true)

	cert, err := builder.Assemble(now, false)
	if err != nil {
		result.AbortedAt = "certify"
		return result, fmt.Errorf("pipeline: certify assembly: %w", err)
	}
	certificate.Seal(cert)
	result.Certificate = cert
	prof.Track(stageStart, "certify")

	if cv.ModelLayers != nil {
		var sourceHash, quantizedHash [32]byte
		copy(sourceHash[:], cv.SourceHash)
		copy(quantizedHash[:], cv.QuantizedHash)
		result.Model = modelformat.NewModel(opts.ToolVersion, sourceHash, quantizedHash,
			cert.MerkleRoot, cv.TargetFormat, cv.ModelLayers, cv.ModelPayload)
	}

	return result, nil
}
