package fusion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/internal/extract"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

func TestLevenshteinSimilarity(t *testing.T) {
	assert.Equal(t, 100.0, LevenshteinSimilarity("Milk 2%", "milk 2%"))
	assert.Equal(t, 100.0, LevenshteinSimilarity("Milk 2%", "milk 2 percent"))
	assert.Equal(t, 100.0, LevenshteinSimilarity("Ben & Jerry's", "ben and jerry's"))
	assert.GreaterOrEqual(t, LevenshteinSimilarity("Organic Milk", "0rganic Milk"), 80.0)
	assert.GreaterOrEqual(t, LevenshteinSimilarity("Whole Milk Organic", "Organic Whole Milk"), 80.0)
	assert.Less(t, LevenshteinSimilarity("Milk", "Charcoal Briquettes"), 40.0)
}

func TestFuseItemsMergesSymbolSpellingVariants(t *testing.T) {
	e := NewEngine(nil)
	items := []extract.LineItemCandidate{
		{Name: "Milk 2%", TotalPrice: 3.99, Confidence: 0.8, SourceStrategy: "pattern"},
		{Name: "milk 2 percent", TotalPrice: 3.99, Confidence: 0.6, SourceStrategy: "nlp"},
	}

	fused := e.FuseItems(items)
	require.Len(t, fused, 1)
	assert.Equal(t, "Milk 2%", fused[0].Name)
	assert.Equal(t, 3.99, fused[0].TotalPrice)
	assert.Equal(t, 0.8, fused[0].Confidence)
}

func TestFuseItemsMergesNearDuplicates(t *testing.T) {
	e := NewEngine(nil)
	items := []extract.LineItemCandidate{
		{Name: "Organic Milk", Quantity: 1, UnitPrice: 4.99, TotalPrice: 4.99, Confidence: 0.75, SourceStrategy: "pattern"},
		{Name: "0rganic Milk", Quantity: 2, UnitPrice: 2.50, TotalPrice: 5.00, Confidence: 0.60, SourceStrategy: "nlp"},
	}

	fused := e.FuseItems(items)
	require.Len(t, fused, 1)
	assert.Equal(t, "Organic Milk", fused[0].Name)
	assert.Equal(t, 0.75, fused[0].Confidence)
	// quantity folded in from the losing candidate
	assert.Equal(t, 2.0, fused[0].Quantity)
	assert.Equal(t, 2.50, fused[0].UnitPrice)
}

func TestFuseItemsPriceDisagreementKeepsBoth(t *testing.T) {
	e := NewEngine(nil)
	items := []extract.LineItemCandidate{
		{Name: "Organic Milk", TotalPrice: 4.99, Confidence: 0.75},
		{Name: "Organic Milk", TotalPrice: 14.99, Confidence: 0.70},
	}

	fused := e.FuseItems(items)
	assert.Len(t, fused, 2)
}

func TestFuseItemsDissimilarNamesKeepBoth(t *testing.T) {
	e := NewEngine(nil)
	items := []extract.LineItemCandidate{
		{Name: "Organic Milk", TotalPrice: 4.99, Confidence: 0.75},
		{Name: "Paper Towels", TotalPrice: 4.99, Confidence: 0.75},
	}

	fused := e.FuseItems(items)
	assert.Len(t, fused, 2)
}

func TestFuseItemsNoRemainingPairMergeable(t *testing.T) {
	e := NewEngine(nil)
	items := []extract.LineItemCandidate{
		{Name: "Organic Milk", TotalPrice: 4.99, Confidence: 0.75},
		{Name: "0rganic Milk", TotalPrice: 5.00, Confidence: 0.60},
		{Name: "Paper Towels", TotalPrice: 8.49, Confidence: 0.70},
		{Name: "Paper Towel", TotalPrice: 8.49, Confidence: 0.78},
	}

	fused := e.FuseItems(items)
	for i := range fused {
		for j := i + 1; j < len(fused); j++ {
			same := LevenshteinSimilarity(fused[i].Name, fused[j].Name) >= 80 &&
				priceWithinTolerance(fused[i].TotalPrice, fused[j].TotalPrice)
			assert.False(t, same, "%q and %q remained mergeable", fused[i].Name, fused[j].Name)
		}
	}
	// running fusion again changes nothing
	assert.Equal(t, fused, e.FuseItems(fused))
}

func TestFuseWarrantiesSameCoverageMerges(t *testing.T) {
	e := NewEngine(nil)
	exp := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	cands := []warranty.Candidate{
		{ItemName: "", Type: warranty.TypeManufacturer, Period: warranty.Period{Years: 1}, Confidence: 0.60},
		{ItemName: "55in TV", Type: warranty.TypeManufacturer, Period: warranty.Period{Years: 1}, Confidence: 0.75, Expiration: exp},
	}

	fused := e.FuseWarranties(cands)
	require.Len(t, fused, 1)
	assert.Equal(t, "55in TV", fused[0].ItemName)
	assert.Equal(t, 0.75, fused[0].Confidence)
	assert.Equal(t, exp, fused[0].Expiration)
}

func TestFuseWarrantiesSimilarItemNamesMerge(t *testing.T) {
	e := NewEngine(nil)
	cands := []warranty.Candidate{
		{ItemName: "Samsung TV", Type: warranty.TypeManufacturer, Period: warranty.Period{Years: 1}, Confidence: 0.60},
		{ItemName: "Samsung TV.", Type: warranty.TypeExtended, Period: warranty.Period{Years: 3}, Confidence: 0.75},
	}

	fused := e.FuseWarranties(cands)
	require.Len(t, fused, 1)
	assert.Equal(t, warranty.TypeExtended, fused[0].Type)
}

func TestFuseWarrantiesDifferentCoverageKept(t *testing.T) {
	e := NewEngine(nil)
	cands := []warranty.Candidate{
		{ItemName: "Drill", Type: warranty.TypeLimited, Period: warranty.Period{Years: 3}, Confidence: 0.75},
		{ItemName: "Blender", Type: warranty.TypeReturn, Period: warranty.Period{Days: 30}, Confidence: 0.75},
	}

	assert.Len(t, e.FuseWarranties(cands), 2)
}

func TestPriceWithinTolerance(t *testing.T) {
	assert.True(t, priceWithinTolerance(10.00, 10.40))
	assert.False(t, priceWithinTolerance(10.00, 11.00))
	assert.True(t, priceWithinTolerance(0, 0))
}
