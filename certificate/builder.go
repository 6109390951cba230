package certificate

import (
	"fmt"

	"certifiable-quant/errs"
)

// Certificate holds every field of the 360-byte record in its native Go
// type (§3 "Certificate").
type Certificate struct {
	Version   uint32
	Timestamp uint64 // UTC seconds

	Symmetric bool
	Format    byte

	SourceHash [32]byte
	BNHash     [32]byte
	Folded     bool

	AnalysisHash     [32]byte
	CalibrationHash  [32]byte
	VerificationHash [32]byte

	Epsilon0           float64
	EpsilonTotal       float64
	EpsilonMaxObserved float64

	QuantizedHash [32]byte
	ParamCount    uint64
	LayerCount    uint32

	MerkleRoot [32]byte
	Signature  [64]byte
}

// Builder accumulates the certificate's inputs across exactly six setter
// calls before assembly (§4.7 "Builder"/"State machine"). Every setter is
// idempotent: calling it again with the same or different values simply
// overwrites the accumulated field and leaves the "invoked" flag set.
type Builder struct {
	cert Certificate

	versionSet bool
	sourceSet  bool
	digestsSet bool
	targetSet  bool
	formatSet  bool
	scopeSet   bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetVersion records the certificate format version.
func (b *Builder) SetVersion(version uint32) *Builder {
	b.cert.Version = version
	b.versionSet = true
	return b
}

// SetSourceIdentity records the source model hash, the pre-folding
// BatchNorm hash, and whether folding occurred. Either hash being a
// nil/empty slice is a NULL_POINTER failure.
func (b *Builder) SetSourceIdentity(sourceHash, bnHash []byte, folded bool) error {
	sh, err := to32(sourceHash)
	if err != nil {
		return err
	}
	bh, err := to32(bnHash)
	if err != nil {
		return err
	}
	b.cert.SourceHash = sh
	b.cert.BNHash = bh
	b.cert.Folded = folded
	b.sourceSet = true
	return nil
}

// SetDigests records the three 32-byte digest hashes and the three
// epsilon claims computed from the analysis and verification digests.
func (b *Builder) SetDigests(analysisHash, calibrationHash, verificationHash []byte, epsilon0, epsilonTotal, epsilonMaxObserved float64) error {
	ah, err := to32(analysisHash)
	if err != nil {
		return err
	}
	ch, err := to32(calibrationHash)
	if err != nil {
		return err
	}
	vh, err := to32(verificationHash)
	if err != nil {
		return err
	}
	b.cert.AnalysisHash = ah
	b.cert.CalibrationHash = ch
	b.cert.VerificationHash = vh
	b.cert.Epsilon0 = epsilon0
	b.cert.EpsilonTotal = epsilonTotal
	b.cert.EpsilonMaxObserved = epsilonMaxObserved
	b.digestsSet = true
	return nil
}

// SetTargetIdentity records the quantized model hash, parameter count,
// and layer count.
func (b *Builder) SetTargetIdentity(quantizedHash []byte, paramCount uint64, layerCount uint32) error {
	qh, err := to32(quantizedHash)
	if err != nil {
		return err
	}
	b.cert.QuantizedHash = qh
	b.cert.ParamCount = paramCount
	b.cert.LayerCount = layerCount
	b.targetSet = true
	return nil
}

// SetFormat records the target fixed-point format byte.
func (b *Builder) SetFormat(format byte) *Builder {
	b.cert.Format = format
	b.formatSet = true
	return b
}

// SetSymmetricScope records the symmetric-only scope flag.
func (b *Builder) SetSymmetricScope(symmetric bool) *Builder {
	b.cert.Symmetric = symmetric
	b.scopeSet = true
	return b
}

// IsComplete reports whether all six setters have been invoked.
func (b *Builder) IsComplete() bool {
	return b.versionSet && b.sourceSet && b.digestsSet && b.targetSet && b.formatSet && b.scopeSet
}

// to32 converts a byte slice to a [32]byte, rejecting nil/empty or
// mis-sized input as a NULL_POINTER failure.
func to32(b []byte) ([32]byte, error) {
	var out [32]byte
	if len(b) == 0 {
		return out, fmt.Errorf("certificate: %w", errs.NullPointer)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("certificate: hash must be 32 bytes, got %d: %w", len(b), errs.NullPointer)
	}
	copy(out[:], b)
	return out, nil
}
