package constants

import (
	"strings"
)

type Category string

const (
	Groceries       Category = "Groceries"
	Electronics     Category = "Electronics"
	Dining          Category = "Dining"
	Clothing        Category = "Clothing"
	HomeImprovement Category = "HomeImprovement"
	Pharmacy        Category = "Pharmacy"
	OfficeSupplies  Category = "OfficeSupplies"
	Appliances      Category = "Appliances"
	Automotive      Category = "Automotive"
	Entertainment   Category = "Entertainment"
	Other           Category = "Other"
)

var allCategories = []Category{
	Groceries,
	Electronics,
	Dining,
	Clothing,
	HomeImprovement,
	Pharmacy,
	OfficeSupplies,
	Appliances,
	Automotive,
	Entertainment,
	Other,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"grocery":     Groceries,
		"supermarket": Groceries,
		"food":        Groceries,
		"restaurant":  Dining,
		"cafe":        Dining,
		"fast food":   Dining,
		"tech":        Electronics,
		"computers":   Electronics,
		"hardware":    HomeImprovement,
		"drugstore":   Pharmacy,
		"apparel":     Clothing,
		"auto":        Automotive,
		"appliance":   Appliances,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
