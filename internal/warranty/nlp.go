package warranty

import (
	"context"
	"regexp"
	"strings"
)

var warrantyKeywords = []string{
	"warranty", "guarantee", "coverage", "protection plan", "service plan", "warranted",
}

var reNumberUnit = regexp.MustCompile(`(?i)\b(\d{1,3})\s*(year|yr|month|mo|day)s?\b`)

// NLPStrategy scans sentences mentioning warranty vocabulary for a
// number + time-unit pair. Looser than the pattern strategy: it does not
// require the number and the keyword to be adjacent, only co-sentential.
type NLPStrategy struct{}

func (NLPStrategy) Name() string { return StrategyNLP }

func (NLPStrategy) Extract(_ context.Context, in Input) []Candidate {
	var out []Candidate
	subject := primaryItemName(in)

	for _, sentence := range splitSentences(in.Text) {
		lower := strings.ToLower(sentence)
		if !containsAny(lower, warrantyKeywords) {
			continue
		}
		m := reNumberUnit.FindStringSubmatch(sentence)
		if m == nil {
			continue
		}
		n := atoiSafe(m[1])
		if n <= 0 {
			continue
		}

		var period Period
		switch strings.ToLower(m[2]) {
		case "year", "yr":
			period = Period{Years: n}
		case "month", "mo":
			period = Period{Months: n}
		case "day":
			period = Period{Days: n}
		}

		wtype := TypeManufacturer
		if strings.Contains(lower, "extended") || strings.Contains(lower, "protection plan") || strings.Contains(lower, "service plan") {
			wtype = TypeExtended
		} else if strings.Contains(lower, "return") {
			wtype = TypeReturn
		}

		out = append(out, Candidate{
			ItemName:       subject,
			Period:         period,
			Type:           wtype,
			Confidence:     confNLP,
			SourceStrategy: StrategyNLP,
		})
	}
	return out
}

var reSentenceSplit = regexp.MustCompile(`[.!?\n]+`)

func splitSentences(text string) []string {
	parts := reSentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
