package modelformat

import (
	"encoding/binary"
	"fmt"

	"certifiable-quant/config"
	"certifiable-quant/errs"
)

// Serialize writes m's fixed header, layer header array, and payload
// into one contiguous byte slice, ready to be written to a file.
func Serialize(m *Model) []byte {
	buf := make([]byte, m.TotalSize())

	magic := magicForFormat(m.TargetFormat)
	copy(buf[offMagic:offMagic+4], magic[:])
	binary.LittleEndian.PutUint32(buf[offVersion:], m.Version)
	copy(buf[offSourceHash:offSourceHash+32], m.SourceHash[:])
	copy(buf[offQuantizedHash:offQuantizedHash+32], m.QuantizedHash[:])
	binary.LittleEndian.PutUint32(buf[offLayerCount:], uint32(len(m.Layers)))
	binary.LittleEndian.PutUint64(buf[offParamCount:], m.ParamCount)
	binary.LittleEndian.PutUint64(buf[offTotalSize:], m.TotalSize())
	binary.LittleEndian.PutUint64(buf[offHeaderArrayOffset:], m.HeaderArrayOffset())
	copy(buf[offCertificateRef:offCertificateRef+32], m.CertificateRef[:])
	// offReserved: 24 zero bytes, already the slice's zero value.

	arrayStart := int(m.HeaderArrayOffset())
	for i, l := range m.Layers {
		base := arrayStart + i*LayerHeaderSize
		lh := buf[base : base+LayerHeaderSize]
		binary.LittleEndian.PutUint32(lh[loffIndex:], l.Index)
		binary.LittleEndian.PutUint64(lh[loffWeightOffset:], l.WeightOffset)
		binary.LittleEndian.PutUint64(lh[loffWeightLength:], l.WeightLength)
		binary.LittleEndian.PutUint64(lh[loffBiasOffset:], l.BiasOffset)
		binary.LittleEndian.PutUint64(lh[loffBiasLength:], l.BiasLength)
		binary.LittleEndian.PutUint64(lh[loffParamCount:], l.ParamCount)
	}

	payloadStart := int(m.PayloadOffset())
	copy(buf[payloadStart:], m.Payload)
	return buf
}

// Deserialize parses buf into a Model, validating the magic, the
// declared sizes, and that the header array and payload fit within buf
// (§7 "Programmer errors": too-small buffers and unknown magic return a
// specific error, no partial state).
func Deserialize(buf []byte) (*Model, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("modelformat: buffer too short for header: %w", errs.BufferTooShort)
	}

	var magic [4]byte
	copy(magic[:], buf[offMagic:offMagic+4])
	var format config.TargetFormat
	switch magic {
	case MagicQ1616:
		format = config.FormatQ1616
	case MagicQ824:
		format = config.FormatQ824
	default:
		return nil, fmt.Errorf("modelformat: unrecognized magic %q: %w", magic, errs.InvalidMagic)
	}

	layerCount := binary.LittleEndian.Uint32(buf[offLayerCount:])
	headerArrayOffset := binary.LittleEndian.Uint64(buf[offHeaderArrayOffset:])
	totalSize := binary.LittleEndian.Uint64(buf[offTotalSize:])

	if uint64(len(buf)) < totalSize {
		return nil, fmt.Errorf("modelformat: buffer shorter than declared total size: %w", errs.BufferTooShort)
	}
	arrayEnd := headerArrayOffset + uint64(layerCount)*uint64(LayerHeaderSize)
	if arrayEnd > uint64(len(buf)) {
		return nil, fmt.Errorf("modelformat: layer header array exceeds buffer: %w", errs.BufferTooShort)
	}

	m := &Model{Version: binary.LittleEndian.Uint32(buf[offVersion:]), TargetFormat: format}
	copy(m.SourceHash[:], buf[offSourceHash:offSourceHash+32])
	copy(m.QuantizedHash[:], buf[offQuantizedHash:offQuantizedHash+32])
	copy(m.CertificateRef[:], buf[offCertificateRef:offCertificateRef+32])
	m.ParamCount = binary.LittleEndian.Uint64(buf[offParamCount:])

	m.Layers = make([]LayerHeader, layerCount)
	for i := range m.Layers {
		base := headerArrayOffset + uint64(i)*uint64(LayerHeaderSize)
		lh := buf[base : base+LayerHeaderSize]
		m.Layers[i] = LayerHeader{
			Index:        binary.LittleEndian.Uint32(lh[loffIndex:]),
			WeightOffset: binary.LittleEndian.Uint64(lh[loffWeightOffset:]),
			WeightLength: binary.LittleEndian.Uint64(lh[loffWeightLength:]),
			BiasOffset:   binary.LittleEndian.Uint64(lh[loffBiasOffset:]),
			BiasLength:   binary.LittleEndian.Uint64(lh[loffBiasLength:]),
			ParamCount:   binary.LittleEndian.Uint64(lh[loffParamCount:]),
		}
	}

	payloadStart := arrayEnd
	if payloadStart > totalSize {
		return nil, fmt.Errorf("modelformat: payload offset exceeds declared total size: %w", errs.BufferTooShort)
	}
	m.Payload = append([]byte(nil), buf[payloadStart:totalSize]...)
	return m, nil
}
