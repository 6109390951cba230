package calibrate

import (
	"testing"

	"certifiable-quant/config"
	"certifiable-quant/faultset"
)

func TestRangeVetoTriggersOnObservedOverflow(t *testing.T) {
	ts := NewTensorStats("layer0.out", -1, 1)
	for _, s := range []float64{0, 0.5, 1.0, 1.5, -0.2} {
		ts.Observe(s)
	}
	cfg := config.DefaultCalibrate()
	r := Build(cfg, [32]byte{}, 5, []*TensorStats{ts})

	if !r.RangeVeto {
		t.Fatalf("expected range veto triggered")
	}
	if !r.Faults.Has(faultset.RangeExceed) {
		t.Fatalf("expected RangeExceed fault raised")
	}
	if r.Passed() {
		t.Fatalf("expected Passed() == false under range veto")
	}
}

func TestCoverageVetoWarnsWithoutBlocking(t *testing.T) {
	ts := NewTensorStats("layer0.out", -10, 10)
	for _, s := range []float64{-0.1, 0, 0.1} {
		ts.Observe(s)
	}
	cfg := config.DefaultCalibrate()
	r := Build(cfg, [32]byte{}, 3, []*TensorStats{ts})

	if r.RangeVeto {
		t.Fatalf("observed range within safe bounds, should not range-veto")
	}
	if !r.CoverageVeto {
		t.Fatalf("expected coverage veto on a tiny observed window vs a wide safe range")
	}
	if !r.Passed() {
		t.Fatalf("coverage veto alone must not fail Passed()")
	}
	if r.PassedFull() {
		t.Fatalf("PassedFull() must be false under a coverage veto")
	}
}

func TestDegenerateTensorCoversFully(t *testing.T) {
	ts := NewTensorStats("const.out", -1, 1)
	cfg := config.DefaultCalibrate()
	r := Build(cfg, [32]byte{}, 0, []*TensorStats{ts})

	if !ts.IsDegenerate {
		t.Fatalf("tensor with zero observations must be marked degenerate")
	}
	if r.Coverage.Min != 1 {
		t.Fatalf("degenerate tensor coverage = %v, want 1", r.Coverage.Min)
	}
}

func TestSummarizeCoverageP10Index(t *testing.T) {
	cov := []float64{0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.0, 1.0, 1.0, 1.0}
	s := SummarizeCoverage(cov)
	if s.Min != 0.5 {
		t.Fatalf("min = %v, want 0.5", s.Min)
	}
	if s.P10 != 0.6 {
		t.Fatalf("p10 = %v, want 0.6 (index 1 of 10)", s.P10)
	}
}

func TestDigestHashDeterministic(t *testing.T) {
	ts := NewTensorStats("t", -1, 1)
	ts.Observe(0.2)
	cfg := config.DefaultCalibrate()
	r := Build(cfg, [32]byte{0xAB}, 1, []*TensorStats{ts})

	d1 := r.Digest()
	d2 := r.Digest()
	if d1.Hash() != d2.Hash() {
		t.Fatalf("digest hash must be deterministic for identical reports")
	}
}
