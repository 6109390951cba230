// Package testsupport generates deterministic synthetic fixtures —
// tensors, layer specs, and calibration samples — for package tests
// that need repeatable pseudo-random data without depending on the
// system clock or crypto/rand's non-reproducibility.
package testsupport

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/lattigo/v4/utils"

	"certifiable-quant/analyze"
	"certifiable-quant/fixedpoint"
)

// SeededPRNG wraps a keyed PRNG seeded from a fixed byte string, so two
// calls with the same seed reproduce the same sequence (§6 "Test
// tooling").
type SeededPRNG struct {
	prng utils.PRNG
}

// NewSeededPRNG seeds a PRNG from seed. Distinct seeds give independent
// streams; the same seed always replays identically.
func NewSeededPRNG(seed []byte) (*SeededPRNG, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("testsupport: seeding PRNG: %w", err)
	}
	return &SeededPRNG{prng: prng}, nil
}

// Int63n returns a uniform pseudo-random value in [0, n).
func (s *SeededPRNG) Int63n(n int64) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("testsupport: n must be > 0")
	}
	buf := make([]byte, 8)
	if _, err := s.prng.Read(buf); err != nil {
		return 0, fmt.Errorf("testsupport: reading PRNG: %w", err)
	}
	r := new(big.Int).SetBytes(buf)
	return r.Mod(r, big.NewInt(n)).Int64(), nil
}

// BoundedFloat64 returns a deterministic value in [-bound, bound).
func (s *SeededPRNG) BoundedFloat64(bound float64) (float64, error) {
	if bound <= 0 {
		return 0, fmt.Errorf("testsupport: bound must be > 0")
	}
	const resolution = 1 << 20
	n, err := s.Int63n(2 * resolution)
	if err != nil {
		return 0, err
	}
	frac := float64(n)/float64(resolution) - 1.0 // in [-1, 1)
	return frac * bound, nil
}

// SyntheticTensor produces a Matrix with rows*cols entries drawn
// uniformly from [-bound, bound) and the calibration samples that would
// have produced it, for feeding both the analyze and calibrate stages
// from one deterministic source.
type SyntheticTensor struct {
	Matrix  analyze.Matrix
	Samples []float64
}

// GenerateTensor draws a deterministic rows x cols matrix bounded by
// bound, using prng.
func GenerateTensor(prng *SeededPRNG, rows, cols int, bound float64) (SyntheticTensor, error) {
	if rows <= 0 || cols <= 0 {
		return SyntheticTensor{}, fmt.Errorf("testsupport: rows and cols must be > 0")
	}
	data := make([]float32, rows*cols)
	samples := make([]float64, rows*cols)
	for i := range data {
		v, err := prng.BoundedFloat64(bound)
		if err != nil {
			return SyntheticTensor{}, err
		}
		data[i] = float32(v)
		samples[i] = v
	}
	return SyntheticTensor{
		Matrix:  analyze.Matrix{Rows: rows, Cols: cols, Data: data},
		Samples: samples,
	}, nil
}

// SyntheticLayer is a deterministic linear-layer error contract
// consistent with a plausible weight/input scale pairing, for
// exercising analyze.AppendLayer without a real model graph.
type SyntheticLayer struct {
	Amplification float64
	WeightErr     float64
	BiasErr       float64
	ProjErr       float64
	Overflow      fixedpoint.OverflowProof
}

// GenerateLayerChain builds n layers whose amplification factors and
// local error terms are deterministic functions of prng, each carrying the
// overflow proof computed for maxWeightMag/maxInputMag/dotLen (safe or not).
func GenerateLayerChain(prng *SeededPRNG, n int, maxWeightMag, maxInputMag uint32, dotLen uint32) ([]SyntheticLayer, error) {
	if n < 0 {
		return nil, fmt.Errorf("testsupport: n must be >= 0")
	}
	layers := make([]SyntheticLayer, n)
	for i := 0; i < n; i++ {
		amp, err := prng.BoundedFloat64(2.0)
		if err != nil {
			return nil, err
		}
		if amp < 0 {
			amp = -amp
		}
		weightErr, err := prng.BoundedFloat64(1e-3)
		if err != nil {
			return nil, err
		}
		if weightErr < 0 {
			weightErr = -weightErr
		}
		layers[i] = SyntheticLayer{
			Amplification: amp,
			WeightErr:     weightErr,
			BiasErr:       1e-5,
			ProjErr:       1e-6,
			Overflow:      fixedpoint.ComputeOverflowProof(maxWeightMag, maxInputMag, dotLen),
		}
	}
	return layers, nil
}
