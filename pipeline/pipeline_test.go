package pipeline

import (
	"testing"

	"certifiable-quant/calibrate"
	"certifiable-quant/config"
	"certifiable-quant/fixedpoint"
	"certifiable-quant/modelformat"
	"certifiable-quant/verify"
)

func fixedNow() uint64 { return 1700000000 }

func cleanTensor() *calibrate.TensorStats {
	ts := calibrate.NewTensorStats("layer0.out", -1, 1)
	for _, s := range []float64{-0.5, 0, 0.5} {
		ts.Observe(s)
	}
	return ts
}

func baseAnalyzeInput() AnalyzeInput {
	safe := fixedpoint.ComputeOverflowProof(1, 1, 4)
	return AnalyzeInput{
		InputScaleExp: 16,
		Layers: []LayerSpec{
			{Amplification: 1.2, WeightErr: 0.0001, BiasErr: 0.00005, ProjErr: 0.00002, Overflow: safe},
		},
	}
}

func baseConvertInput() ConvertInput {
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = byte(i)
	}
	return ConvertInput{
		SourceHash:    hash,
		QuantizedHash: hash,
		ParamCount:    10,
		LayerCount:    1,
		TargetFormat:  config.FormatQ1616,
	}
}

func baseVerifyInput(theoretical, measured float64) VerifyInput {
	var stats verify.RunningStats
	stats.Observe(measured)
	var total verify.RunningStats
	total.Observe(measured)
	return VerifyInput{
		DatasetHash:      [32]byte{0x01},
		SampleCount:      10,
		Layers:           []verify.LayerResult{{Name: "l0", Theoretical: theoretical, Measured: stats}},
		TotalTheoretical: theoretical,
		TotalMeasured:    total,
	}
}

func TestRunEndToEndSuccess(t *testing.T) {
	opts := Options{
		Analyze:     config.DefaultAnalyze(),
		Calibrate:   config.DefaultCalibrate(),
		Verify:      config.DefaultVerify(),
		ToolVersion: 1,
		Now:         fixedNow,
	}
	ci := CalibrateInput{DatasetHash: [32]byte{0x02}, SampleCount: 3, Tensors: []*calibrate.TensorStats{cleanTensor()}}
	vi := baseVerifyInput(0.01, 0.005)

	result, err := Run(opts, baseAnalyzeInput(), ci, baseConvertInput(), vi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AbortedAt != "" {
		t.Fatalf("expected full run, aborted at %q", result.AbortedAt)
	}
	if result.Certificate == nil {
		t.Fatalf("expected a certificate to be produced")
	}
	if result.Faults.Any() {
		t.Fatalf("unexpected faults on a clean run: %v", result.Faults.Bits())
	}
}

func TestRunEndToEndBuildsModelWhenLayersSupplied(t *testing.T) {
	opts := Options{
		Analyze:     config.DefaultAnalyze(),
		Calibrate:   config.DefaultCalibrate(),
		Verify:      config.DefaultVerify(),
		ToolVersion: 1,
		Now:         fixedNow,
	}
	ci := CalibrateInput{DatasetHash: [32]byte{0x02}, SampleCount: 3, Tensors: []*calibrate.TensorStats{cleanTensor()}}
	vi := baseVerifyInput(0.01, 0.005)
	cv := baseConvertInput()
	cv.ModelLayers = []modelformat.LayerHeader{
		{Index: 0, WeightOffset: 0, WeightLength: 4, BiasOffset: 4, BiasLength: 2, ParamCount: 3},
	}
	cv.ModelPayload = []byte{1, 2, 3, 4, 5, 6}

	result, err := Run(opts, baseAnalyzeInput(), ci, cv, vi)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Model == nil {
		t.Fatalf("expected a model to be assembled")
	}
	if result.Model.CertificateRef != result.Certificate.MerkleRoot {
		t.Fatalf("model certificate back-reference does not match sealed certificate root")
	}
	if len(result.Model.Layers) != 1 {
		t.Fatalf("expected 1 layer header, got %d", len(result.Model.Layers))
	}
}

func TestRunAbortsOnAsymmetricAnalysis(t *testing.T) {
	opts := Options{Analyze: config.DefaultAnalyze(), Calibrate: config.DefaultCalibrate(), Verify: config.DefaultVerify(), Now: fixedNow}
	ai := baseAnalyzeInput()
	ai.Layers[0].Asymmetric = true
	ci := CalibrateInput{Tensors: []*calibrate.TensorStats{cleanTensor()}}
	vi := baseVerifyInput(0.01, 0.005)

	result, err := Run(opts, ai, ci, baseConvertInput(), vi)
	if err == nil {
		t.Fatalf("expected error on asymmetric spec")
	}
	if result.AbortedAt != "analyze" {
		t.Fatalf("AbortedAt = %q, want analyze", result.AbortedAt)
	}
	if result.Certificate != nil {
		t.Fatalf("no certificate must be built on abort")
	}
}

func TestRunAbortsOnRangeVeto(t *testing.T) {
	opts := Options{Analyze: config.DefaultAnalyze(), Calibrate: config.DefaultCalibrate(), Verify: config.DefaultVerify(), Now: fixedNow}
	badTensor := calibrate.NewTensorStats("layer0.out", -1, 1)
	badTensor.Observe(5.0) // outside claimed safe range
	ci := CalibrateInput{Tensors: []*calibrate.TensorStats{badTensor}}
	vi := baseVerifyInput(0.01, 0.005)

	result, err := Run(opts, baseAnalyzeInput(), ci, baseConvertInput(), vi)
	if err == nil {
		t.Fatalf("expected error on range veto")
	}
	if result.AbortedAt != "calibrate" {
		t.Fatalf("AbortedAt = %q, want calibrate", result.AbortedAt)
	}
	if result.Certificate != nil {
		t.Fatalf("no certificate must be built on abort")
	}
}

func TestRunAbortsOnBoundViolation(t *testing.T) {
	opts := Options{Analyze: config.DefaultAnalyze(), Calibrate: config.DefaultCalibrate(), Verify: config.DefaultVerify(), Now: fixedNow}
	ci := CalibrateInput{Tensors: []*calibrate.TensorStats{cleanTensor()}}
	vi := baseVerifyInput(0.001, 0.5) // measured far exceeds theoretical

	result, err := Run(opts, baseAnalyzeInput(), ci, baseConvertInput(), vi)
	if err == nil {
		t.Fatalf("expected error on bound violation")
	}
	if result.AbortedAt != "verify" {
		t.Fatalf("AbortedAt = %q, want verify", result.AbortedAt)
	}
	if result.Certificate != nil {
		t.Fatalf("no certificate must be built on abort")
	}
}
