package provider

import (
	"log/slog"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// Selection is the selector's decision: a primary provider, an optional
// fallback for escalation, and the reason the choice was made (for logs and
// result metadata).
type Selection struct {
	Primary  constants.ProviderID
	Fallback constants.ProviderID // empty when no fallback is designated
	Reason   string
}

// ReasonBudgetFallback marks selections where no provider fit the budget and
// the zero-cost local engine was forced.
const ReasonBudgetFallback = "no provider within budget, local fallback"

type Selector struct {
	registry *Registry
	logger   *slog.Logger
}

func NewSelector(registry *Registry, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{registry: registry, logger: logger}
}

// Select picks providers for one request. budgetLimit == nil means unbounded;
// budgetLimit == 0 forces the zero-cost local engine.
func (s *Selector) Select(qualityScore float64, hint constants.QualityHint, budgetLimit *float64, timeoutMs int) Selection {
	avail := s.registry.Available()

	if len(avail) == 1 {
		sel := Selection{Primary: avail[0].ID, Reason: "only provider available"}
		s.log(sel, qualityScore, hint)
		return sel
	}

	if budgetLimit != nil && *budgetLimit == 0 {
		sel := Selection{Primary: constants.ProviderLocal, Reason: "zero budget forces local engine"}
		s.log(sel, qualityScore, hint)
		return sel
	}

	var sel Selection
	switch {
	case qualityScore >= constants.ImageQualityHigh:
		if hint == constants.HintFast || timeoutMs < constants.FastTimeoutMs {
			sel = s.rank(constants.FastestOrder, budgetLimit, "high quality, speed preferred")
		} else {
			sel = s.rank(constants.AccurateOrder, budgetLimit, "high quality, accuracy preferred")
		}
	default:
		// medium or low quality both want the most accurate engine available
		sel = s.rank(constants.AccurateOrder, budgetLimit, "degraded image, accuracy required")
	}

	s.log(sel, qualityScore, hint)
	return sel
}

// rank walks a fixed priority list, keeping the first available provider
// within budget. Local is the designated fallback whenever it is not already
// the pick.
func (s *Selector) rank(order []constants.ProviderID, budgetLimit *float64, reason string) Selection {
	for _, id := range order {
		d, ok := s.registry.Descriptor(id)
		if !ok || !d.Available {
			continue
		}
		if budgetLimit != nil && d.CostPerCall > *budgetLimit {
			continue
		}
		sel := Selection{Primary: id, Reason: reason}
		if id != constants.ProviderLocal {
			if ld, ok := s.registry.Descriptor(constants.ProviderLocal); ok && ld.Available {
				sel.Fallback = constants.ProviderLocal
			}
		}
		return sel
	}
	// nothing fits the budget
	return Selection{Primary: constants.ProviderLocal, Reason: ReasonBudgetFallback}
}

func (s *Selector) log(sel Selection, quality float64, hint constants.QualityHint) {
	s.logger.Info("provider.selected",
		"primary", sel.Primary,
		"fallback", sel.Fallback,
		"quality", quality,
		"hint", hint,
		"reason", sel.Reason,
	)
}
