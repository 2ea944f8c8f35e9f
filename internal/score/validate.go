package score

import (
	"math"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// Validation is the outcome of the arithmetic cross-check. A mismatch is
// advisory, never fatal: tax lines, discounts, and partial item extraction
// all produce legitimate gaps.
type Validation struct {
	ItemSum       float64 `json:"item_sum"`
	DeclaredTotal float64 `json:"declared_total"`
	Delta         float64 `json:"delta"`
	Mismatch      bool    `json:"mismatch"`
}

// ValidateTotal compares the sum of item prices against the declared total
// within the standard tolerance. With no declared total or no items there is
// nothing to check and the result is clean.
func ValidateTotal(itemPrices []float64, declaredTotal float64) Validation {
	v := Validation{DeclaredTotal: declaredTotal}
	for _, p := range itemPrices {
		v.ItemSum += p
	}
	if declaredTotal <= 0 || len(itemPrices) == 0 {
		return v
	}
	v.Delta = math.Abs(v.ItemSum - declaredTotal)
	v.Mismatch = v.Delta > declaredTotal*constants.TotalMismatchTolerancePct
	return v
}
