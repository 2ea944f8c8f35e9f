package constants

// Flag is a non-fatal annotation attached to ExtractionResult metadata.
type Flag string

// Stable values (callers persist these exact strings).
const (
	FlagLowConfidence      Flag = "LOW_CONFIDENCE_RESULT" // usable but below review threshold
	FlagValidationMismatch Flag = "VALIDATION_MISMATCH"   // item sum disagrees with declared total
	FlagFallbackUsed       Flag = "FALLBACK_PROVIDER"     // fallback result was kept over primary
	FlagBudgetExhausted    Flag = "BUDGET_FALLBACK"       // no provider fit the budget, local forced
	FlagNeedsReview        Flag = "NEEDS_REVIEW"          // manual review recommended
)
