// Package warranty extracts warranty signals from receipts and warranty
// documents with the same ensemble architecture as line-item extraction.
package warranty

import (
	"time"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// Period is a warranty duration. Expiration applies years, then months, then
// days to the purchase date; there is no time-of-day component.
type Period struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

func (p Period) IsZero() bool { return p.Years == 0 && p.Months == 0 && p.Days == 0 }

// Sane reports whether the period is within the sanity bounds. Anything
// larger is an extraction artifact, not a real warranty.
func (p Period) Sane() bool {
	return p.Years <= constants.MaxWarrantyYears &&
		p.Months <= constants.MaxWarrantyMonths &&
		p.Days <= constants.MaxWarrantyDays &&
		(p.Years >= 0 && p.Months >= 0 && p.Days >= 0) &&
		!p.IsZero()
}

// ExpirationFrom computes the coverage end date.
func (p Period) ExpirationFrom(purchase time.Time) time.Time {
	if purchase.IsZero() {
		return time.Time{}
	}
	return purchase.AddDate(p.Years, 0, 0).AddDate(0, p.Months, 0).AddDate(0, 0, p.Days)
}

// Warranty types.
const (
	TypeManufacturer = "manufacturer"
	TypeExtended     = "extended"
	TypeLimited      = "limited"
	TypeReturn       = "return_policy"
)

// Candidate is one possible warranty attached to an item.
type Candidate struct {
	ItemName       string    `json:"item_name"`
	Period         Period    `json:"period"`
	Type           string    `json:"type"`
	Confidence     float64   `json:"confidence"`
	SourceStrategy string    `json:"source_strategy"`
	Expiration     time.Time `json:"expiration,omitempty"`
}

// Item is the minimal view of a fused line item the strategies need.
type Item struct {
	Name  string
	Price float64
}

// Input is the immutable snapshot every strategy works from.
type Input struct {
	Text         string
	Merchant     string
	Total        float64
	PurchaseDate time.Time
	Items        []Item
}

// Strategy base confidences. Product lookup is authoritative and scores
// highest.
const (
	StrategyTextPattern = "warranty-pattern"
	StrategyCategory    = "item-category"
	StrategyMerchant    = "merchant-policy"
	StrategyNLP         = "warranty-nlp"
	StrategyLookup      = "product-lookup"

	confTextPattern = 0.75
	confCategory    = 0.60
	confMerchant    = 0.60
	confNLP         = 0.65
	confLookup      = 0.90
)
