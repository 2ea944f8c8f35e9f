// Package fusion merges near-duplicate candidates produced by independent
// extraction strategies into one canonical set per receipt.
package fusion

import (
	"math"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/extract"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

// MatchFn reports whether two candidates describe the same thing.
type MatchFn[T any] func(a, b T) bool

// MergeFn folds non-conflicting fields of the loser into the winner.
type MergeFn[T any] func(winner, loser T) T

// Merge is the generic single-pass cluster merge: each candidate either joins
// the first accepted candidate it matches (the higher-confidence one of the
// pair survives) or becomes its own cluster representative. O(n²), fine for
// per-receipt candidate counts.
func Merge[T any](candidates []T, match MatchFn[T], confidence func(T) float64, merge MergeFn[T]) []T {
	var accepted []T
	for _, cand := range candidates {
		merged := false
		for i, rep := range accepted {
			if !match(rep, cand) {
				continue
			}
			if confidence(cand) > confidence(rep) {
				accepted[i] = merge(cand, rep)
			} else {
				accepted[i] = merge(rep, cand)
			}
			merged = true
			break
		}
		if !merged {
			accepted = append(accepted, cand)
		}
	}
	return accepted
}

// Engine applies the generic merge to line items and warranty candidates
// with their respective match rules.
type Engine struct {
	similarity SimilarityFn
}

func NewEngine(similarity SimilarityFn) *Engine {
	if similarity == nil {
		similarity = LevenshteinSimilarity
	}
	return &Engine{similarity: similarity}
}

// FuseItems merges items that are the same product seen by different
// strategies: names similar enough AND prices within tolerance of their mean.
func (e *Engine) FuseItems(items []extract.LineItemCandidate) []extract.LineItemCandidate {
	match := func(a, b extract.LineItemCandidate) bool {
		if e.similarity(a.Name, b.Name) < constants.DedupSimilarityThreshold {
			return false
		}
		return priceWithinTolerance(a.TotalPrice, b.TotalPrice)
	}
	conf := func(c extract.LineItemCandidate) float64 { return c.Confidence }
	merge := func(winner, loser extract.LineItemCandidate) extract.LineItemCandidate {
		if winner.Quantity <= 1 && loser.Quantity > 1 {
			winner.Quantity = loser.Quantity
			winner.UnitPrice = loser.UnitPrice
		}
		return winner
	}
	return Merge(items, match, conf, merge)
}

// FuseWarranties merges warranty candidates covering the same item: similar
// names OR literally the same coverage (type and period).
func (e *Engine) FuseWarranties(cands []warranty.Candidate) []warranty.Candidate {
	match := func(a, b warranty.Candidate) bool {
		if e.similarity(a.ItemName, b.ItemName) >= constants.DedupSimilarityThreshold {
			return true
		}
		return a.Type == b.Type && a.Period == b.Period
	}
	conf := func(c warranty.Candidate) float64 { return c.Confidence }
	merge := func(winner, loser warranty.Candidate) warranty.Candidate {
		if winner.ItemName == "" {
			winner.ItemName = loser.ItemName
		}
		if winner.Expiration.IsZero() {
			winner.Expiration = loser.Expiration
		}
		return winner
	}
	return Merge(cands, match, conf, merge)
}

func priceWithinTolerance(a, b float64) bool {
	avg := (a + b) / 2
	if avg == 0 {
		return a == b
	}
	return math.Abs(a-b) <= avg*constants.PriceTolerancePct
}
