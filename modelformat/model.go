package modelformat

import "certifiable-quant/config"

// LayerHeader locates one layer's weight and bias payload within the
// contiguous payload region that follows the header array.
type LayerHeader struct {
	Index        uint32
	WeightOffset uint64
	WeightLength uint64
	BiasOffset   uint64
	BiasLength   uint64
	ParamCount   uint64
}

// Model is the in-memory form of a quantized model container: the fixed
// header fields, the per-layer header array, and the raw payload bytes
// each layer header addresses into.
type Model struct {
	Version        uint32
	SourceHash     [32]byte
	QuantizedHash  [32]byte
	TargetFormat   config.TargetFormat
	ParamCount     uint64
	CertificateRef [32]byte
	Layers         []LayerHeader
	Payload        []byte // contiguous weight/bias region every LayerHeader offset indexes into
}

// NewModel assembles a Model from its layer headers and payload, filling
// in ParamCount from the layer slice. TotalSize and the offsets are not
// stored; the methods below compute them on demand.
func NewModel(version uint32, sourceHash, quantizedHash, certificateRef [32]byte, format config.TargetFormat, layers []LayerHeader, payload []byte) *Model {
	var params uint64
	for _, l := range layers {
		params += l.ParamCount
	}
	return &Model{
		Version:        version,
		SourceHash:     sourceHash,
		QuantizedHash:  quantizedHash,
		TargetFormat:   format,
		ParamCount:     params,
		CertificateRef: certificateRef,
		Layers:         layers,
		Payload:        payload,
	}
}

// TotalSize is the full container size: fixed header + layer header
// array + payload region.
func (m *Model) TotalSize() uint64 {
	return uint64(HeaderSize) + uint64(len(m.Layers))*uint64(LayerHeaderSize) + uint64(len(m.Payload))
}

// HeaderArrayOffset is the byte offset of the layer header array, always
// immediately after the fixed header.
func (m *Model) HeaderArrayOffset() uint64 {
	return uint64(HeaderSize)
}

// PayloadOffset is the byte offset of the contiguous weight/bias region.
func (m *Model) PayloadOffset() uint64 {
	return m.HeaderArrayOffset() + uint64(len(m.Layers))*uint64(LayerHeaderSize)
}
