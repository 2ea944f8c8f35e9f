package constants

// ProviderID identifies a text-recognition provider. Selection logic operates
// on these values, never on raw provider name strings.
type ProviderID string

const (
	ProviderLocal     ProviderID = "LOCAL"     // tesseract, zero cost
	ProviderOpenAI    ProviderID = "OPENAI"    // vision chat completions
	ProviderGemini    ProviderID = "GEMINI"    // generative-ai-go
	ProviderAnthropic ProviderID = "ANTHROPIC" // messages API with image blocks
)

// Tier is a coarse speed/accuracy ranking. Higher is better.
type Tier int

const (
	TierLow Tier = iota + 1
	TierMedium
	TierHigh
)

// QualityHint is the caller preference biasing provider selection.
type QualityHint string

const (
	HintAuto     QualityHint = "auto"
	HintFast     QualityHint = "fast"
	HintAccurate QualityHint = "accurate"
)

// fastestOrder and accurateOrder are the fixed priority lists used when
// ranking candidates for a tier. Local always ranks last for accuracy and
// first for speed among zero-cost options.
var (
	FastestOrder  = []ProviderID{ProviderGemini, ProviderOpenAI, ProviderLocal, ProviderAnthropic}
	AccurateOrder = []ProviderID{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderLocal}
)
