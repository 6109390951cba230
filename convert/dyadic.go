package convert

import (
	"fmt"

	"certifiable-quant/faultset"
	"certifiable-quant/fixedpoint"
)

// DyadicValid checks the per-layer dyadic constraint bias.exp ==
// weight.exp + input.exp (§2 "Scale exponent").
func DyadicValid(weightExp, inputExp, biasExp fixedpoint.ScaleExp) bool {
	return int(biasExp) == int(weightExp)+int(inputExp)
}

// CheckDyadic returns a dyadic-violation error when the constraint fails;
// the caller clears dyadic_valid for the layer header on this path.
func CheckDyadic(weightExp, inputExp, biasExp fixedpoint.ScaleExp) error {
	if !DyadicValid(weightExp, inputExp, biasExp) {
		return fmt.Errorf("convert: dyadic constraint violated: bias.exp=%d, want weight.exp(%d)+input.exp(%d)=%d",
			biasExp, weightExp, inputExp, int(weightExp)+int(inputExp))
	}
	return nil
}

// EnforceSymmetric fails closed on any non-symmetric quantization spec,
// raising the Asymmetric fault (§4.5 "Symmetric enforcement").
func EnforceSymmetric(isSymmetric bool) (faultset.Set, error) {
	var faults faultset.Set
	if !isSymmetric {
		faults.Raise(faultset.Asymmetric)
		return faults, fmt.Errorf("convert: asymmetric quantization spec encountered")
	}
	return faults, nil
}
