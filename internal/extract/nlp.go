package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

var reMoneyExpr = regexp.MustCompile(`\$?\d{1,6}\.\d{2}`)

// NLPStrategy pairs the dominant noun phrase on a line with a monetary
// expression on the same line. Shallow by design: no external language model,
// just token shape. Its candidates carry the lowest base confidence.
type NLPStrategy struct{}

func (NLPStrategy) Name() string { return StrategyNLP }

func (NLPStrategy) Extract(res provider.RecognitionResult) []LineItemCandidate {
	var out []LineItemCandidate
	for _, line := range strings.Split(res.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isNonItemLine(line) {
			continue
		}

		money := reMoneyExpr.FindAllString(line, -1)
		if len(money) == 0 {
			continue
		}
		phrase := nounPhrase(line)
		if phrase == "" {
			continue
		}

		// pair the phrase with the last monetary expression on the line,
		// which on receipts is the extended price
		total := parseFloat(money[len(money)-1])
		if c, ok := newItem(phrase, 1, total, total, confNLP, StrategyNLP); ok {
			out = append(out, c)
		}
	}
	return out
}

// nounPhrase returns the longest run of word-like tokens on the line,
// skipping anything numeric or symbol-heavy.
func nounPhrase(line string) string {
	tokens := strings.Fields(line)
	var best, cur []string
	for _, tok := range tokens {
		if isWordToken(tok) {
			cur = append(cur, tok)
			if len(cur) > len(best) {
				best = cur
			}
		} else {
			cur = nil
		}
	}
	return strings.Join(best, " ")
}

func isWordToken(tok string) bool {
	letters := 0
	for _, r := range tok {
		if unicode.IsLetter(r) {
			letters++
		} else if unicode.IsDigit(r) {
			return false
		}
	}
	return letters >= 2
}
