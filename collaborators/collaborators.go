// Package collaborators declares the typed external-actor contracts the
// pipeline depends on but does not implement (§6): the FP32 model parser,
// the quantized-model inference engine, the signing oracle, and the
// dataset loader. Mirrors the teacher's own habit of bundling external-actor
// data behind named structs/interfaces (credential/types.go's HolderState,
// IssuerChallenge, Transcript) rather than passing loose parameters.
package collaborators

import "context"

// Tensor is the minimal shape a parsed FP32 tensor must expose: its flat
// weight data plus dimensions, as the Theorist and Observer need them.
type Tensor struct {
	Data  []float32
	Shape []int
}

// Layer is one linear (optionally BatchNorm-fused) layer as the parser
// exposes it: weight matrix (rows x cols, row-major), optional bias, and an
// optional BatchNorm fold request.
type Layer struct {
	Name    string
	Weight  Tensor
	Bias    *Tensor
	BatchNorm *BatchNormParams
	ReLU    bool
}

// BatchNormParams carries the per-channel BatchNorm parameters the Convert
// stage needs to fold into a preceding linear layer (§4.5).
type BatchNormParams struct {
	Gamma []float32
	Beta  []float32
	Mean  []float32
	Var   []float32
	Eps   float32
}

// ModelParser supplies the layer graph and weight arrays for a source FP32
// model. Not implemented here: file formats, graph construction, and
// framework interop are out of scope (§1).
type ModelParser interface {
	// Layers returns the ordered layer graph of the source model.
	Layers(ctx context.Context) ([]Layer, error)
	// SourceHash returns the 32-byte content hash of the source model used
	// to seed the certificate's source-identity section.
	SourceHash(ctx context.Context) ([32]byte, error)
}

// InferenceEngine consumes a serialized quantized model file and produces
// fixed-point outputs for a batch of inputs. Not implemented here: the
// binary inference engine itself is out of scope (§1); this interface only
// describes what Verify needs from it to measure L∞ deviation.
type InferenceEngine interface {
	// RunFixedPoint executes the quantized model on input and returns the
	// raw fixed-point output buffer of the model's output.
	RunFixedPoint(ctx context.Context, quantizedModel []byte, input []float32) ([]int32, error)
}

// SigningOracle optionally produces a signature over a sealed
// certificate's Merkle root (§3 "Certificate", §6). Not implemented here:
// key management and signing schemes are external.
type SigningOracle interface {
	// Sign returns a 64-byte signature over merkleRoot, or an error if
	// signing is unavailable; a certificate with no oracle configured is
	// sealed with a zero-filled signature slot.
	Sign(ctx context.Context, merkleRoot [32]byte) ([64]byte, error)
}

// DatasetLoader delivers the raw bytes to hash for a calibration or
// verification dataset, plus per-sample iteration. Not implemented here:
// file I/O for dataset loading is out of scope (§1).
type DatasetLoader interface {
	// RawBytes returns the dataset's raw content for SHA-256 hashing.
	RawBytes(ctx context.Context) ([]byte, error)
	// Samples returns the observed scalar values keyed by tensor name, one
	// map entry per tensor; the map itself carries no tensor order.
	Samples(ctx context.Context) (map[string][]float64, error)
}
