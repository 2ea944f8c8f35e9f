package warranty

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

var (
	reYearsWarranty  = regexp.MustCompile(`(?i)\b(\d{1,2})[\s-]*(?:year|yr)s?\b[^.\n]{0,30}?\bwarranty\b`)
	reMonthsWarranty = regexp.MustCompile(`(?i)\b(\d{1,3})[\s-]*(?:month|mo)s?\b[^.\n]{0,30}?\bwarranty\b`)
	reWarrantyYears  = regexp.MustCompile(`(?i)\bwarranty\b[^.\n]{0,30}?\b(\d{1,2})[\s-]*(?:year|yr)s?\b`)
	reWarrantyMonths = regexp.MustCompile(`(?i)\bwarranty\b[^.\n]{0,30}?\b(\d{1,3})[\s-]*(?:month|mo)s?\b`)
	reReturnDays     = regexp.MustCompile(`(?i)\breturn(?:s|ed)?\b[^.\n]{0,40}?\b(?:within\s+)?(\d{1,3})\s*days?\b`)
	reExtended       = regexp.MustCompile(`(?i)\bextended\s+(?:warranty|protection|service\s+plan)\b`)
	reManufacturer   = regexp.MustCompile(`(?i)\bmanufacturer(?:'s)?\s+warranty\b`)
	reLimited        = regexp.MustCompile(`(?i)\blimited\s+warranty\b`)
)

// TextPatternStrategy matches explicit warranty language in the recognized
// text: "2 year warranty", "return within 30 days", "limited warranty".
type TextPatternStrategy struct{}

func (TextPatternStrategy) Name() string { return StrategyTextPattern }

func (TextPatternStrategy) Extract(_ context.Context, in Input) []Candidate {
	var out []Candidate
	subject := primaryItemName(in)

	addPeriod := func(p Period, wtype string, conf float64) {
		out = append(out, Candidate{
			ItemName:       subject,
			Period:         p,
			Type:           wtype,
			Confidence:     conf,
			SourceStrategy: StrategyTextPattern,
		})
	}

	wtype := TypeManufacturer
	switch {
	case reExtended.MatchString(in.Text):
		wtype = TypeExtended
	case reLimited.MatchString(in.Text):
		wtype = TypeLimited
	case reManufacturer.MatchString(in.Text):
		wtype = TypeManufacturer
	}

	if m := firstMatch(in.Text, reYearsWarranty, reWarrantyYears); m != "" {
		if y := atoiSafe(m); y > 0 {
			addPeriod(Period{Years: y}, wtype, confTextPattern+0.05)
		}
	}
	if m := firstMatch(in.Text, reMonthsWarranty, reWarrantyMonths); m != "" {
		if mo := atoiSafe(m); mo > 0 {
			addPeriod(Period{Months: mo}, wtype, confTextPattern)
		}
	}
	if m := reReturnDays.FindStringSubmatch(in.Text); m != nil {
		if d := atoiSafe(m[1]); d > 0 {
			addPeriod(Period{Days: d}, TypeReturn, confTextPattern)
		}
	}

	// bare "extended warranty" / "limited warranty" mention without a period:
	// assume the common one-year term at reduced confidence
	if len(out) == 0 {
		switch {
		case reExtended.MatchString(in.Text):
			addPeriod(Period{Years: 1}, TypeExtended, confTextPattern-0.15)
		case reLimited.MatchString(in.Text) || reManufacturer.MatchString(in.Text):
			addPeriod(Period{Years: 1}, wtype, confTextPattern-0.15)
		}
	}
	return out
}

// primaryItemName picks the most expensive item as the warranty subject;
// warranty language on a receipt nearly always refers to the big purchase.
func primaryItemName(in Input) string {
	best := ""
	bestPrice := 0.0
	for _, item := range in.Items {
		if item.Price > bestPrice {
			best, bestPrice = item.Name, item.Price
		}
	}
	if best == "" {
		best = strings.TrimSpace(in.Merchant)
	}
	return best
}

func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}

func atoiSafe(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
