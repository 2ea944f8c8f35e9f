package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

// Line-oriented item patterns, most specific first. Header/footer lines are
// excluded before any of these run.
var (
	// "2 x 4.99 = 9.98" or "2 @ 4.99 9.98"
	reQtyUnitTotal = regexp.MustCompile(`^(.+?)\s+(\d{1,3})\s*[x×@]\s*\$?(\d{1,5}\.\d{2})\s*=?\s*\$?(\d{1,6}\.\d{2})$`)
	// "Widget @ 4.99 = 9.98"
	reNameAtUnit = regexp.MustCompile(`^(.+?)\s*@\s*\$?(\d{1,5}\.\d{2})\s*=?\s*\$?(\d{1,6}\.\d{2})$`)
	// "2 Widget 9.98"
	reQtyNamePrice = regexp.MustCompile(`^(\d{1,3})\s+(\D.*?)\s+\$?(\d{1,6}\.\d{2})$`)
	// "Widget 9.98"
	reNamePrice = regexp.MustCompile(`^(.+?)\s+\$?(\d{1,6}\.\d{2})$`)

	rePhone    = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	reURL      = regexp.MustCompile(`(?i)(www\.|https?://|\.com|\.net|\.org)`)
	reTimeOnly = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\s*(am|pm|AM|PM)?\b`)
	reBareDate = regexp.MustCompile(`^\s*\d{1,4}[/-]\d{1,2}[/-]\d{2,4}\s*$`)
	reSummary  = regexp.MustCompile(`(?i)\b(sub\s*total|subtotal|total|tax|change|cash|credit|debit|card|balance|tender|amount\s+due|visa|mastercard)\b`)
)

type PatternStrategy struct{}

func (PatternStrategy) Name() string { return StrategyPattern }

func (PatternStrategy) Extract(res provider.RecognitionResult) []LineItemCandidate {
	var out []LineItemCandidate
	for _, line := range strings.Split(res.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isNonItemLine(line) {
			continue
		}

		if m := reQtyUnitTotal.FindStringSubmatch(line); m != nil {
			qty := parseFloat(m[2])
			unit := parseFloat(m[3])
			total := parseFloat(m[4])
			if c, ok := newItem(m[1], qty, unit, total, confPatternQ, StrategyPattern); ok {
				out = append(out, c)
			}
			continue
		}
		if m := reNameAtUnit.FindStringSubmatch(line); m != nil {
			unit := parseFloat(m[2])
			total := parseFloat(m[3])
			qty := 1.0
			if unit > 0 {
				qty = roundQty(total / unit)
			}
			if c, ok := newItem(m[1], qty, unit, total, confPatternQ, StrategyPattern); ok {
				out = append(out, c)
			}
			continue
		}
		if m := reQtyNamePrice.FindStringSubmatch(line); m != nil {
			qty := parseFloat(m[1])
			total := parseFloat(m[3])
			unit := 0.0
			if qty > 0 {
				unit = total / qty
			}
			if c, ok := newItem(m[2], qty, unit, total, confPatternQ, StrategyPattern); ok {
				out = append(out, c)
			}
			continue
		}
		if m := reNamePrice.FindStringSubmatch(line); m != nil {
			total := parseFloat(m[2])
			if c, ok := newItem(m[1], 1, total, total, confPattern, StrategyPattern); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// isNonItemLine screens out headers, footers and summary rows that would
// otherwise match the name+price patterns.
func isNonItemLine(line string) bool {
	if rePhone.MatchString(line) || reURL.MatchString(line) {
		return true
	}
	if reSummary.MatchString(line) {
		return true
	}
	if reTimeOnly.MatchString(line) || reBareDate.MatchString(line) {
		return true
	}
	return false
}

// newItem applies the shared sanity rules every strategy's candidates obey.
func newItem(name string, qty, unit, total, conf float64, strategy string) (LineItemCandidate, bool) {
	name = cleanItemName(name)
	if len(name) < 2 || total <= 0 || total > constants.MaxItemPrice {
		return LineItemCandidate{}, false
	}
	if qty <= 0 {
		qty = 1
	}
	if unit <= 0 {
		unit = total / qty
	}
	return LineItemCandidate{
		Name:           name,
		Quantity:       qty,
		UnitPrice:      unit,
		TotalPrice:     total,
		Confidence:     conf,
		SourceStrategy: strategy,
	}, true
}

var reItemNoise = regexp.MustCompile(`[*#]+`)

func cleanItemName(s string) string {
	s = reItemNoise.ReplaceAllString(s, "")
	s = strings.Trim(s, " .-:")
	return strings.TrimSpace(s)
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimPrefix(s, "$"), 64)
	return v
}

func roundQty(v float64) float64 {
	r := float64(int(v + 0.5))
	if r < 1 {
		return 1
	}
	return r
}
