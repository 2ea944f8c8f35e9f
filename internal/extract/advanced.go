package extract

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

var (
	// "0123456789 WIDGET 9.98 T": department/UPC prefix plus tax flag suffix
	reDeptPrefixed = regexp.MustCompile(`^\d{3,13}\s+(\D.*?)\s+\$?(\d{1,6}\.\d{2})\s*([TFNXO])?$`)
	// price-only continuation line under a name-only line
	rePriceOnly = regexp.MustCompile(`^\s*\$?(\d{1,6}\.\d{2})\s*([TFNXO])?\s*$`)
	reNameOnly  = regexp.MustCompile(`^[A-Za-z][\w\s.,'&%/-]{2,50}$`)
	// "WIDGET 9.98 T"
	reTaxFlagged = regexp.MustCompile(`^(.+?)\s+\$?(\d{1,6}\.\d{2})\s+([TFNXO])$`)
)

// AdvancedPatternStrategy covers register formats the simple line patterns
// miss: department-code prefixes, tax-indicator suffixes, and items whose
// price wraps onto the following line.
type AdvancedPatternStrategy struct{}

func (AdvancedPatternStrategy) Name() string { return StrategyAdvanced }

func (AdvancedPatternStrategy) Extract(res provider.RecognitionResult) []LineItemCandidate {
	lines := strings.Split(res.Text, "\n")
	var out []LineItemCandidate

	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || isNonItemLine(line) {
			continue
		}

		if m := reDeptPrefixed.FindStringSubmatch(line); m != nil {
			total := parseFloat(m[2])
			if c, ok := newItem(m[1], 1, total, total, confAdvanced, StrategyAdvanced); ok {
				out = append(out, c)
			}
			continue
		}

		if m := reTaxFlagged.FindStringSubmatch(line); m != nil {
			total := parseFloat(m[2])
			if c, ok := newItem(m[1], 1, total, total, confAdvanced, StrategyAdvanced); ok {
				out = append(out, c)
			}
			continue
		}

		// multi-line continuation: a bare name followed by a bare price
		if reNameOnly.MatchString(line) && i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if m := rePriceOnly.FindStringSubmatch(next); m != nil {
				total := parseFloat(m[1])
				if c, ok := newItem(line, 1, total, total, confAdvanced-0.02, StrategyAdvanced); ok {
					out = append(out, c)
					i++ // consume the price line
				}
			}
		}
	}
	return out
}
