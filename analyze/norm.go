package analyze

import "math"

// Matrix is a row-major dense weight matrix (rows x cols) in the layer's
// source FP32 precision, widened to float64 for the norm computation.
type Matrix struct {
	Rows, Cols int
	Data       []float32 // row-major, length Rows*Cols
}

func (m Matrix) at(r, c int) float64 {
	return float64(m.Data[r*m.Cols+c])
}

// FrobeniusNorm returns sqrt(sum_ij w_ij^2), the default operator-norm
// amplification bound (§4.3). The reduction order is fixed — row-major,
// left-to-right — so the result is byte-identical across platforms: no
// fused-multiply-add, no reassociation by the compiler is assumed (§9).
func FrobeniusNorm(m Matrix) float64 {
	var sumSq float64
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			v := m.at(r, c)
			sumSq += float64(v * v) // explicit conversion forbids FMA fusion
		}
	}
	return math.Sqrt(sumSq)
}

// RowSumNorm returns the L-infinity-induced operator norm: the maximum,
// over rows, of the sum of absolute values in that row. Exposed as an
// alternative amplification bound (§4.3); FrobeniusNorm remains the
// default.
func RowSumNorm(m Matrix) float64 {
	var maxRowSum float64
	for r := 0; r < m.Rows; r++ {
		var rowSum float64
		for c := 0; c < m.Cols; c++ {
			rowSum += math.Abs(m.at(r, c))
		}
		if rowSum > maxRowSum {
			maxRowSum = rowSum
		}
	}
	return maxRowSum
}
