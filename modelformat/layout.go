// Package modelformat implements the quantized model binary container:
// a fixed header, a per-layer header array, and contiguous weight/bias
// payloads, all addressed by offsets stored in the header (§6 "External
// interfaces", "Quantized model binary format"). It is the artifact the
// Transformer stage emits and the inference-engine collaborator
// consumes; it carries a back-reference to the certificate that
// certifies it, but never embeds the certificate bytes themselves.
package modelformat

import "certifiable-quant/config"

// MagicQ1616 and MagicQ824 select the target fixed-point format the
// payload was quantized to (§6's "CQ16"/"CQ24").
var (
	MagicQ1616 = [4]byte{'C', 'Q', '1', '6'}
	MagicQ824  = [4]byte{'C', 'Q', '2', '4'}
)

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 156

// LayerHeaderSize is the fixed per-layer header length in bytes.
const LayerHeaderSize = 44

// Byte offsets within the fixed header.
const (
	offMagic             = 0   // [4]byte
	offVersion           = 4   // uint32
	offSourceHash        = 8   // [32]byte
	offQuantizedHash     = 40  // [32]byte
	offLayerCount        = 72  // uint32
	offParamCount        = 76  // uint64
	offTotalSize         = 84  // uint64
	offHeaderArrayOffset = 92  // uint64, byte offset of the layer header array
	offCertificateRef    = 100 // [32]byte, certificate Merkle root this model was sealed against
	offReserved          = 132 // 24 bytes, zero-filled
)

// Byte offsets within one LayerHeader record.
const (
	loffIndex        = 0  // uint32
	loffWeightOffset = 4  // uint64, from start of payload region
	loffWeightLength = 12 // uint64
	loffBiasOffset   = 20 // uint64
	loffBiasLength   = 28 // uint64
	loffParamCount   = 36 // uint64
)

// magicForFormat maps the certified target format to its container magic.
func magicForFormat(format config.TargetFormat) [4]byte {
	if format == config.FormatQ824 {
		return MagicQ824
	}
	return MagicQ1616
}
