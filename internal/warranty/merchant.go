package warranty

import (
	"context"
	"strings"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// merchantPolicy is a known store-wide policy.
type merchantPolicy struct {
	names  []string
	period Period
	wtype  string
}

var electronicsRetailers = []string{
	"best buy", "micro center", "b&h", "newegg", "frys", "apple store", "gamestop",
}

// Small table of merchant-specific policies we trust.
var merchantPolicies = []merchantPolicy{
	{names: []string{"costco"}, period: Period{Days: 90}, wtype: TypeReturn},
	{names: []string{"best buy"}, period: Period{Days: 15}, wtype: TypeReturn},
	{names: []string{"home depot", "lowe's", "lowes"}, period: Period{Days: 90}, wtype: TypeReturn},
	{names: []string{"apple store"}, period: Period{Years: 1}, wtype: TypeManufacturer},
}

// MerchantStrategy infers warranties from who sold the item: electronics
// retailers imply a manufacturer warranty on the purchase, high-value
// purchases imply extended-warranty availability, and a few merchants have
// known blanket policies.
type MerchantStrategy struct{}

func (MerchantStrategy) Name() string { return StrategyMerchant }

func (MerchantStrategy) Extract(_ context.Context, in Input) []Candidate {
	var out []Candidate
	merchant := strings.ToLower(in.Merchant)
	if merchant == "" {
		return nil
	}
	subject := primaryItemName(in)

	if containsAny(merchant, electronicsRetailers) {
		out = append(out, Candidate{
			ItemName:       subject,
			Period:         Period{Years: 1},
			Type:           TypeManufacturer,
			Confidence:     confMerchant,
			SourceStrategy: StrategyMerchant,
		})
	}

	if in.Total > constants.HighValueItemAmount {
		out = append(out, Candidate{
			ItemName:       subject,
			Period:         Period{Years: 2},
			Type:           TypeExtended,
			Confidence:     confMerchant - 0.10, // availability, not evidence of purchase
			SourceStrategy: StrategyMerchant,
		})
	}

	for _, pol := range merchantPolicies {
		if containsAny(merchant, pol.names) {
			out = append(out, Candidate{
				ItemName:       subject,
				Period:         pol.period,
				Type:           pol.wtype,
				Confidence:     confMerchant + 0.05,
				SourceStrategy: StrategyMerchant,
			})
			break
		}
	}
	return out
}
