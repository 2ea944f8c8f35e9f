// Package score turns extraction outputs into a single confidence number and
// cross-checks the arithmetic on the receipt.
package score

import (
	"strings"
)

// genericMerchants are placeholder names the field extractor can emit when the
// header is unreadable; they earn no merchant credit.
var genericMerchants = map[string]struct{}{
	"":        {},
	"receipt": {},
	"invoice": {},
	"store":   {},
	"unknown": {},
	"merchant": {},
}

// Inputs is everything the overall confidence depends on.
type Inputs struct {
	RecognitionConfidence float64 // 0..1, from the recognition provider
	Merchant              string
	Total                 float64
	ItemCount             int
}

// Confidence weights recognition quality most heavily, then rewards having
// the key fields. Three or more items earns the full item credit.
func Confidence(in Inputs) float64 {
	score := in.RecognitionConfidence * 0.4

	if !isGenericMerchant(in.Merchant) {
		score += 0.25
	}
	if in.Total > 0 {
		score += 0.25
	}

	itemRatio := float64(in.ItemCount) / 3.0
	if itemRatio > 1 {
		itemRatio = 1
	}
	score += 0.1 * itemRatio

	return clamp01(score)
}

func isGenericMerchant(name string) bool {
	_, ok := genericMerchants[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
