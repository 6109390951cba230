// Package certificate implements the Notary: the 360-byte fixed-layout
// certificate record, its builder, Merkle-root sealing, and
// serialize/deserialize with integrity verification.
package certificate

// Size is the fixed certificate record length in bytes.
const Size = 360

// MagicCQCR is the 4-byte magic at offset 0.
var MagicCQCR = [4]byte{'C', 'Q', 'C', 'R'}

// Byte offsets for every field, in the seven contiguous sections named by
// §3/§4.7. The 17 reserved bytes after layerCount pad section 6 out so the
// Merkle root lands exactly at offset 264, matching the "264 contiguous
// bytes from the start" hash input.
const (
	offMagic       = 0  // [4]byte
	offVersion     = 4  // uint32
	offTimestamp   = 8  // uint64, UTC seconds
	offScopeSym    = 16 // byte, 0x01 = symmetric-only
	offScopeFormat = 17 // byte, target format

	offSourceHash = 18 // [32]byte
	offBNHash     = 50 // [32]byte
	offFoldedFlag = 82 // byte

	offAnalysisHash     = 83  // [32]byte
	offCalibrationHash  = 115 // [32]byte
	offVerificationHash = 147 // [32]byte

	offEpsilon0      = 179 // float64 LE
	offEpsilonTotal  = 187 // float64 LE
	offEpsilonMaxObs = 195 // float64 LE

	offQuantizedHash = 203 // [32]byte
	offParamCount    = 235 // uint64
	offLayerCount    = 243 // uint32

	offReserved = 247 // 17 bytes, zero-filled

	offMerkleRoot = 264 // [32]byte
	offSignature  = 296 // [64]byte

	// merkleInputLen is the byte range hashed into the Merkle root: from
	// offset 0 up to, but not including, offMerkleRoot.
	merkleInputLen = offMerkleRoot
)
