package certificate

import (
	"fmt"

	"certifiable-quant/digest"
	"certifiable-quant/errs"
)

// Assemble finalizes the builder's accumulated inputs into a certificate
// with a fresh timestamp, refusing to build when the builder is
// incomplete or when upstreamBlocked signals a fail-closed condition
// from an earlier stage (calibration range veto, verification bound
// violation, or analysis invalidity) (§4.7 "Failure semantics").
func (b *Builder) Assemble(now func() uint64, upstreamBlocked bool) (*Certificate, error) {
	if upstreamBlocked {
		return nil, fmt.Errorf("certificate: %w", errs.UpstreamBlocked)
	}
	if !b.IsComplete() {
		return nil, fmt.Errorf("certificate: %w", errs.IncompleteBuilder)
	}
	cert := b.cert
	cert.Timestamp = now()
	return &cert, nil
}

// ComputeMerkleRoot returns the SHA-256 over the contiguous byte range
// from the start of the certificate up to (but not including) the
// merkle_root field — exactly 264 bytes (§4.7 "Merkle root"). Computed
// over the serialized form, so it is independent of whatever the
// MerkleRoot/Signature fields currently hold.
func ComputeMerkleRoot(cert *Certificate) [32]byte {
	buf := Serialize(cert)
	return digest.Sum256(buf[:merkleInputLen])
}

// Seal computes and stores the Merkle root, transitioning the
// certificate from COMPLETE to SEALED (§4.7 "State machine"). The
// signature slot is left untouched: it starts zero-filled (unsigned) and
// is outside the hashed range, so a later signature does not change the
// root.
func Seal(cert *Certificate) {
	cert.MerkleRoot = ComputeMerkleRoot(cert)
}

// VerifyIntegrity recomputes the Merkle root over the current contents
// and compares it to the stored root: any single-byte change to bytes
// 0..263 changes the root with overwhelming probability, so tamper
// detection reduces to this comparison.
func VerifyIntegrity(cert *Certificate) bool {
	return ComputeMerkleRoot(cert) == cert.MerkleRoot
}

// BoundsOK reports whether the certificate's claimed total bound covers
// the observed maximum error: epsilon_max_measured <= epsilon_total.
func BoundsOK(cert *Certificate) bool {
	return cert.EpsilonMaxObserved <= cert.EpsilonTotal
}
