// Package extract turns a recognized text snapshot into candidate receipt
// fields. Several independent strategies run over the same input and disagree
// freely; fusion reconciles them later.
package extract

import (
	"time"
)

// CandidateField is the unit every strategy produces: a value plus where it
// came from and how much the strategy trusts it.
type CandidateField[T any] struct {
	Value          T
	Confidence     float64 // 0..1
	SourceStrategy string
	Provenance     string // the text the value was read from
}

// LineItemCandidate is one possible purchased item.
type LineItemCandidate struct {
	Name           string
	Quantity       float64
	UnitPrice      float64
	TotalPrice     float64 // always > 0 for a surviving candidate
	Confidence     float64
	SourceStrategy string
}

// Fields holds the fused single-value receipt fields.
type Fields struct {
	Merchant CandidateField[string]
	Total    CandidateField[float64]
	Date     CandidateField[time.Time]
}

// Strategy base confidences. Pattern-derived strategies score higher than
// NLP-derived ones.
const (
	StrategyPattern  = "pattern"
	StrategyBlocks   = "blocks"
	StrategyAdvanced = "advanced-pattern"
	StrategyNLP      = "nlp"
	StrategyTable    = "table"

	confPattern  = 0.75
	confPatternQ = 0.80 // quantity-bearing patterns are less ambiguous
	confBlocks   = 0.70
	confAdvanced = 0.72
	confNLP      = 0.60
	confTable    = 0.78
)
