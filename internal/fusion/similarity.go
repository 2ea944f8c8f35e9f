package fusion

import (
	"strings"

	"github.com/agext/levenshtein"
)

// SimilarityFn scores two names on a 0..100 scale. The fusion engine takes
// this as an injection point so it is not married to one algorithm.
type SimilarityFn func(a, b string) float64

// symbolSynonyms maps symbols to the words OCR and cloud providers spell them
// as, so "Milk 2%" and "milk 2 percent" normalize to the same string.
var symbolSynonyms = strings.NewReplacer(
	"%", " percent ",
	"&", " and ",
	"#", " number ",
)

// LevenshteinSimilarity is the default: normalized edit-distance similarity
// over case-folded, symbol-expanded, whitespace-collapsed input. When the
// names share whole tokens but edit distance underrates them (reordered or
// partially dropped words), the shared-token ratio wins.
func LevenshteinSimilarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}
	edit := levenshtein.Similarity(na, nb, nil) * 100
	if tok := sharedTokenRatio(na, nb); tok > edit {
		return tok
	}
	return edit
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(symbolSynonyms.Replace(strings.ToLower(s))), " ")
}

func sharedTokenRatio(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	counts := make(map[string]int, len(ta))
	for _, t := range ta {
		counts[t]++
	}
	shared := 0
	for _, t := range tb {
		if counts[t] > 0 {
			counts[t]--
			shared++
		}
	}
	return float64(2*shared) / float64(len(ta)+len(tb)) * 100
}
