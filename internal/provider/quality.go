package provider

import (
	"regexp"
	"strings"
)

var (
	reDigit    = regexp.MustCompile(`\d`)
	reLetter   = regexp.MustCompile(`[a-zA-Z]`)
	reCurrency = regexp.MustCompile(`[$£€¥]|\b(usd|eur|gbp|cad|aud)\b`)
)

// AssessResult scores a RecognitionResult independent of which provider
// produced it. The score decides whether the primary result is good enough or
// whether the designated fallback should be tried.
//
// base 0.3, +0.2 text>20 chars, +0.4*confidence, +0.1 digits and letters,
// +0.05 currency symbol, +0.05 "total", +0.1*imageQuality; clamped to 1.
func AssessResult(res RecognitionResult, imageQualityScore float64) float64 {
	score := 0.3

	text := res.Text
	if len(text) > 20 {
		score += 0.2
	}
	score += res.Confidence * 0.4

	lower := strings.ToLower(text)
	if reDigit.MatchString(text) && reLetter.MatchString(text) {
		score += 0.1
	}
	if reCurrency.MatchString(lower) {
		score += 0.05
	}
	if strings.Contains(lower, "total") {
		score += 0.05
	}
	score += imageQualityScore * 0.1

	if score > 1.0 {
		score = 1.0
	}
	return score
}
