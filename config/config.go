// Package config holds the named, defaulted configuration records for the
// Calibrate, Verify, and Analyze stages (§6), plus a JSON loader in the
// teacher's own params-file idiom (credential/params.go): optional on-disk
// override, falling back to the compiled-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Calibrate holds the Observer's tunable thresholds.
type Calibrate struct {
	CoverageMinThreshold float64 `json:"coverage_min_threshold"`
	CoverageP10Threshold float64 `json:"coverage_p10_threshold"`
	DegenerateEpsilon    float64 `json:"degenerate_epsilon"`
	MinSamples           int     `json:"min_samples"`
}

// DefaultCalibrate returns the spec's named defaults.
func DefaultCalibrate() Calibrate {
	return Calibrate{
		CoverageMinThreshold: 0.90,
		CoverageP10Threshold: 0.95,
		DegenerateEpsilon:    1e-7,
		MinSamples:           100,
	}
}

// Verify holds the Judge's tunable thresholds.
type Verify struct {
	MinSamples          int  `json:"min_samples"`
	MaxSamples          int  `json:"max_samples"`
	CaptureIntermediates bool `json:"capture_intermediates"`
	StrictMode          bool `json:"strict_mode"`
}

// DefaultVerify returns the spec's named defaults.
func DefaultVerify() Verify {
	return Verify{
		MinSamples:           100,
		MaxSamples:           1000,
		CaptureIntermediates: true,
		StrictMode:           false,
	}
}

// TargetFormat names the fixed-point encoding Convert emits into.
type TargetFormat int

const (
	// FormatQ1616 targets the Q16.16 encoding (16 fractional bits).
	FormatQ1616 TargetFormat = iota
	// FormatQ824 targets the Q8.24 encoding (24 fractional bits).
	FormatQ824
)

// Analyze holds the Theorist's tunable parameters.
type Analyze struct {
	InputScaleExp        int8         `json:"input_scale_exp"`
	DefaultWeightExp     int8         `json:"default_weight_exp"`
	DefaultOutputExp     int8         `json:"default_output_exp"`
	TargetFormat         TargetFormat `json:"target_format"`
	AllowMixedPrecision  bool         `json:"allow_mixed_precision"`
	AllowChunkedAccum    bool         `json:"allow_chunked_accum"`
}

// DefaultAnalyze returns the spec's named defaults.
func DefaultAnalyze() Analyze {
	return Analyze{
		InputScaleExp:       16,
		DefaultWeightExp:    16,
		DefaultOutputExp:    16,
		TargetFormat:        FormatQ1616,
		AllowMixedPrecision: false,
		AllowChunkedAccum:   false,
	}
}

// LoadCalibrate reads a JSON override from path, starting from the
// defaults and overwriting only the fields present in the file. A missing
// file is not an error: the caller gets the defaults back unchanged,
// mirroring credential/params.go's tolerant path-fallback behavior.
func LoadCalibrate(path string) (Calibrate, error) {
	cfg := DefaultCalibrate()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read calibrate config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse calibrate config: %w", err)
	}
	return cfg, nil
}

// LoadVerify reads a JSON override from path, defaults-first.
func LoadVerify(path string) (Verify, error) {
	cfg := DefaultVerify()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read verify config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse verify config: %w", err)
	}
	return cfg, nil
}

// LoadAnalyze reads a JSON override from path, defaults-first.
func LoadAnalyze(path string) (Analyze, error) {
	cfg := DefaultAnalyze()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read analyze config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse analyze config: %w", err)
	}
	return cfg, nil
}
