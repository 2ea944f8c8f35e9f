package extract

import (
	"strings"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// categoryKeywords maps merchant/item keywords to a receipt category.
var categoryKeywords = map[constants.Category][]string{
	constants.Groceries:       {"market", "grocery", "foods", "supermarket", "produce", "dairy", "deli"},
	constants.Electronics:     {"best buy", "micro center", "electronics", "laptop", "phone", "tv", "monitor", "camera", "headphone"},
	constants.Dining:          {"restaurant", "cafe", "coffee", "grill", "pizza", "burger", "diner", "bistro"},
	constants.Clothing:        {"apparel", "clothing", "shirt", "jeans", "shoes", "outfitters"},
	constants.HomeImprovement: {"home depot", "lowe's", "lowes", "hardware", "lumber", "paint"},
	constants.Pharmacy:        {"pharmacy", "walgreens", "cvs", "rx", "prescription"},
	constants.OfficeSupplies:  {"staples", "office", "paper", "toner", "ink"},
	constants.Appliances:      {"appliance", "refrigerator", "washer", "dryer", "dishwasher", "microwave"},
	constants.Automotive:      {"auto", "tire", "oil change", "autozone", "o'reilly"},
	constants.Entertainment:   {"cinema", "theater", "game", "tickets"},
}

// ClassifyCategory guesses the receipt category from the merchant name and
// item names. Ties go to the merchant match; no match means Other.
func ClassifyCategory(merchant string, items []LineItemCandidate) constants.Category {
	if cat, ok := matchCategory(merchant); ok {
		return cat
	}

	counts := make(map[constants.Category]int)
	for _, item := range items {
		if cat, ok := matchCategory(item.Name); ok {
			counts[cat]++
		}
	}
	best := constants.Other
	bestCount := 0
	for cat, n := range counts {
		if n > bestCount {
			best, bestCount = cat, n
		}
	}
	return best
}

func matchCategory(s string) (constants.Category, bool) {
	lower := strings.ToLower(s)
	for cat, words := range categoryKeywords {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return cat, true
			}
		}
	}
	return constants.Other, false
}
