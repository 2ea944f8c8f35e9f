package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

const fieldStrategy = "field-scan"

var (
	reAddressish  = regexp.MustCompile(`(?i)^\d+\s+\w+|\b(street|st\.|avenue|ave\.?|blvd|suite|ste\.?|road|rd\.?|drive|dr\.?)\b`)
	reCommonHdr   = regexp.MustCompile(`(?i)^(welcome|thank|receipt|invoice|order|store\s*#|register|cashier|customer)`)
	reTotalLine   = regexp.MustCompile(`(?i)\b(grand\s+total|total|amount\s+due|balance\s+due|amount)\b[^\d]{0,12}\$?(\d{1,6}\.\d{2})`)
	reTrailingAmt = regexp.MustCompile(`\$\s*(\d{1,6}\.\d{2})\s*$`)

	reDateMDY = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	reDateYMD = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

// FieldExtractor produces single-value candidates for merchant, total and
// purchase date by direct heuristic scanning of the text.
type FieldExtractor struct {
	now func() time.Time
}

func NewFieldExtractor() *FieldExtractor {
	return &FieldExtractor{now: time.Now}
}

func (f *FieldExtractor) Extract(res provider.RecognitionResult) Fields {
	lines := strings.Split(res.Text, "\n")
	return Fields{
		Merchant: extractMerchant(lines),
		Total:    extractTotal(lines),
		Date:     f.extractDate(res.Text),
	}
}

// extractMerchant: the first of the top five lines that is not a phone
// number, address or boilerplate header and is plausibly a business name.
func extractMerchant(lines []string) CandidateField[string] {
	limit := 5
	if len(lines) < limit {
		limit = len(lines)
	}
	for i := 0; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if rePhone.MatchString(line) || reURL.MatchString(line) ||
			reAddressish.MatchString(line) || reCommonHdr.MatchString(line) {
			continue
		}
		if len(line) < 3 || len(line) > 50 {
			continue
		}
		conf := 0.8
		if i > 0 {
			conf = 0.7 // deeper lines are more likely slogans or addresses
		}
		return CandidateField[string]{
			Value:          line,
			Confidence:     conf,
			SourceStrategy: fieldStrategy,
			Provenance:     line,
		}
	}
	return CandidateField[string]{SourceStrategy: fieldStrategy}
}

// extractTotal scans from the bottom up; receipts print the grand total near
// the end, after the item list and any subtotal.
func extractTotal(lines []string) CandidateField[float64] {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "subtotal") || strings.Contains(lower, "sub total") {
			continue
		}
		if m := reTotalLine.FindStringSubmatch(line); m != nil {
			return CandidateField[float64]{
				Value:          parseFloat(m[2]),
				Confidence:     0.85,
				SourceStrategy: fieldStrategy,
				Provenance:     line,
			}
		}
	}
	// fallback: last line ending in a currency amount
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if m := reTrailingAmt.FindStringSubmatch(line); m != nil {
			return CandidateField[float64]{
				Value:          parseFloat(m[1]),
				Confidence:     0.55,
				SourceStrategy: fieldStrategy,
				Provenance:     line,
			}
		}
	}
	return CandidateField[float64]{SourceStrategy: fieldStrategy}
}

// extractDate accepts MM/DD/YYYY, MM-DD-YYYY and YYYY-MM-DD; anything in the
// future is rejected as an OCR misread.
func (f *FieldExtractor) extractDate(text string) CandidateField[time.Time] {
	now := f.now()

	if m := reDateYMD.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[0]); err == nil && !t.After(now) {
			return CandidateField[time.Time]{
				Value: t, Confidence: 0.85, SourceStrategy: fieldStrategy, Provenance: m[0],
			}
		}
	}
	if m := reDateMDY.FindStringSubmatch(text); m != nil {
		layout := "1/2/2006"
		normalized := strings.ReplaceAll(m[0], "-", "/")
		if t, err := time.Parse(layout, normalized); err == nil && !t.After(now) {
			return CandidateField[time.Time]{
				Value: t, Confidence: 0.8, SourceStrategy: fieldStrategy, Provenance: m[0],
			}
		}
	}
	return CandidateField[time.Time]{SourceStrategy: fieldStrategy}
}
