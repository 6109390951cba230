package calibrate

import "sort"

// CoverageSummary aggregates per-tensor coverage ratios into the three
// statistics the coverage veto consults (§4.4 "Coverage aggregation"):
// the minimum, the mean, and the 10th percentile (ascending-sort index
// floor(0.1*N), clamped to the last index).
type CoverageSummary struct {
	Min  float64
	Mean float64
	P10  float64
}

// SummarizeCoverage sorts the per-tensor coverage ratios ascending and
// reduces them with a fixed, deterministic index rule. An empty slice
// trivially summarizes to full coverage (no tensor to fall short on).
func SummarizeCoverage(coverages []float64) CoverageSummary {
	if len(coverages) == 0 {
		return CoverageSummary{Min: 1, Mean: 1, P10: 1}
	}
	sorted := append([]float64(nil), coverages...)
	sort.Float64s(sorted)

	idx := int(0.1 * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}

	var sum float64
	for _, c := range coverages {
		sum += c
	}

	return CoverageSummary{
		Min:  sorted[0],
		Mean: sum / float64(len(coverages)),
		P10:  sorted[idx],
	}
}
