package warranty

import (
	"context"
	"strings"
)

// categoryDefault is the default coverage assumed for a product category when
// nothing explicit is found.
type categoryDefault struct {
	category string
	keywords []string
	period   Period
	wtype    string
}

// Ordered: first keyword hit wins, so put more specific categories first.
var categoryDefaults = []categoryDefault{
	{
		category: "appliances",
		keywords: []string{"refrigerator", "fridge", "washer", "dryer", "dishwasher", "oven", "microwave", "vacuum"},
		period:   Period{Years: 2},
		wtype:    TypeManufacturer,
	},
	{
		category: "electronics",
		keywords: []string{"tv", "television", "laptop", "computer", "monitor", "tablet", "phone", "camera", "headphone", "speaker", "console", "printer", "router"},
		period:   Period{Years: 1},
		wtype:    TypeManufacturer,
	},
	{
		category: "tools",
		keywords: []string{"drill", "saw", "sander", "wrench", "toolset", "mower"},
		period:   Period{Years: 3},
		wtype:    TypeLimited,
	},
	{
		category: "furniture",
		keywords: []string{"sofa", "couch", "mattress", "desk", "chair", "table"},
		period:   Period{Years: 1},
		wtype:    TypeLimited,
	},
	{
		category: "jewelry",
		keywords: []string{"watch", "ring", "necklace", "bracelet"},
		period:   Period{Years: 1},
		wtype:    TypeManufacturer,
	},
}

// CategoryStrategy maps item names to a product category and emits that
// category's default warranty.
type CategoryStrategy struct{}

func (CategoryStrategy) Name() string { return StrategyCategory }

func (CategoryStrategy) Extract(_ context.Context, in Input) []Candidate {
	var out []Candidate
	for _, item := range in.Items {
		lower := strings.ToLower(item.Name)
		for _, def := range categoryDefaults {
			if !containsAny(lower, def.keywords) {
				continue
			}
			out = append(out, Candidate{
				ItemName:       item.Name,
				Period:         def.period,
				Type:           def.wtype,
				Confidence:     confCategory,
				SourceStrategy: StrategyCategory,
			})
			break
		}
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
