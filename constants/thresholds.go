package constants

// Heuristic tunables. Values are inherited from the production pipeline and
// deliberately not "corrected" here; change them only with data to back it up.
const (
	// Dedup/fusion.
	DedupSimilarityThreshold = 80.0 // name similarity on a 0..100 scale
	PriceTolerancePct        = 0.05 // prices within 5% of their mean are "the same"

	// Validation.
	TotalMismatchTolerancePct = 0.10 // item sum vs declared total

	// Sanity caps.
	MaxItemPrice        = 10000.0 // single line item price cap, USD-ish units
	MaxWarrantyYears    = 10
	MaxWarrantyMonths   = 120
	MaxWarrantyDays     = 3650
	HighValueItemAmount = 500.0 // above this, extended warranty is plausible

	// Provider selection quality bands.
	ImageQualityHigh   = 0.85
	ImageQualityMedium = 0.65

	// Result escalation.
	ResultQualityLowThreshold = 0.45 // below this, try the fallback provider
	FastTimeoutMs             = 10000

	// Pipeline.
	LowConfidenceThreshold = 0.60 // annotate result for manual review below this
)
