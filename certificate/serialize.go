package certificate

import (
	"encoding/binary"
	"fmt"
	"math"

	"certifiable-quant/config"
	"certifiable-quant/errs"
)

// Serialize copies the certificate into its fixed 360-byte wire form
// (§4.7 "Serialization": "the certificate is already a fixed-layout
// record; serialize is a 360-byte copy").
func Serialize(cert *Certificate) [Size]byte {
	var buf [Size]byte

	copy(buf[offMagic:offMagic+4], MagicCQCR[:])
	binary.LittleEndian.PutUint32(buf[offVersion:], cert.Version)
	binary.LittleEndian.PutUint64(buf[offTimestamp:], cert.Timestamp)

	if cert.Symmetric {
		buf[offScopeSym] = 0x01
	}
	buf[offScopeFormat] = cert.Format

	copy(buf[offSourceHash:offSourceHash+32], cert.SourceHash[:])
	copy(buf[offBNHash:offBNHash+32], cert.BNHash[:])
	if cert.Folded {
		buf[offFoldedFlag] = 1
	}

	copy(buf[offAnalysisHash:offAnalysisHash+32], cert.AnalysisHash[:])
	copy(buf[offCalibrationHash:offCalibrationHash+32], cert.CalibrationHash[:])
	copy(buf[offVerificationHash:offVerificationHash+32], cert.VerificationHash[:])

	binary.LittleEndian.PutUint64(buf[offEpsilon0:], math.Float64bits(cert.Epsilon0))
	binary.LittleEndian.PutUint64(buf[offEpsilonTotal:], math.Float64bits(cert.EpsilonTotal))
	binary.LittleEndian.PutUint64(buf[offEpsilonMaxObs:], math.Float64bits(cert.EpsilonMaxObserved))

	copy(buf[offQuantizedHash:offQuantizedHash+32], cert.QuantizedHash[:])
	binary.LittleEndian.PutUint64(buf[offParamCount:], cert.ParamCount)
	binary.LittleEndian.PutUint32(buf[offLayerCount:], cert.LayerCount)

	copy(buf[offMerkleRoot:offMerkleRoot+32], cert.MerkleRoot[:])
	copy(buf[offSignature:offSignature+64], cert.Signature[:])

	return buf
}

// Deserialize parses a certificate record from buf, rejecting buffers
// shorter than Size, an unrecognized magic, or an unrecognized
// scope_format byte. It does not itself verify integrity; call
// VerifyIntegrity on the result for that.
func Deserialize(buf []byte) (*Certificate, error) {
	if len(buf) < Size {
		return nil, fmt.Errorf("certificate: buffer too short (%d < %d): %w", len(buf), Size, errs.BufferTooShort)
	}
	var magic [4]byte
	copy(magic[:], buf[offMagic:offMagic+4])
	if magic != MagicCQCR {
		return nil, fmt.Errorf("certificate: bad magic %q: %w", magic, errs.InvalidMagic)
	}

	format := buf[offScopeFormat]
	if format != byte(config.FormatQ1616) && format != byte(config.FormatQ824) {
		return nil, fmt.Errorf("certificate: unrecognized scope_format %d: %w", format, errs.InvalidScopeFormat)
	}

	cert := &Certificate{
		Version:   binary.LittleEndian.Uint32(buf[offVersion:]),
		Timestamp: binary.LittleEndian.Uint64(buf[offTimestamp:]),
		Symmetric: buf[offScopeSym] != 0,
		Format:    format,
		Folded:    buf[offFoldedFlag] != 0,

		Epsilon0:           math.Float64frombits(binary.LittleEndian.Uint64(buf[offEpsilon0:])),
		EpsilonTotal:       math.Float64frombits(binary.LittleEndian.Uint64(buf[offEpsilonTotal:])),
		EpsilonMaxObserved: math.Float64frombits(binary.LittleEndian.Uint64(buf[offEpsilonMaxObs:])),

		ParamCount: binary.LittleEndian.Uint64(buf[offParamCount:]),
		LayerCount: binary.LittleEndian.Uint32(buf[offLayerCount:]),
	}
	copy(cert.SourceHash[:], buf[offSourceHash:offSourceHash+32])
	copy(cert.BNHash[:], buf[offBNHash:offBNHash+32])
	copy(cert.AnalysisHash[:], buf[offAnalysisHash:offAnalysisHash+32])
	copy(cert.CalibrationHash[:], buf[offCalibrationHash:offCalibrationHash+32])
	copy(cert.VerificationHash[:], buf[offVerificationHash:offVerificationHash+32])
	copy(cert.QuantizedHash[:], buf[offQuantizedHash:offQuantizedHash+32])
	copy(cert.MerkleRoot[:], buf[offMerkleRoot:offMerkleRoot+32])
	copy(cert.Signature[:], buf[offSignature:offSignature+64])

	return cert, nil
}
