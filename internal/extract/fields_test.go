package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

func fixedClock() *FieldExtractor {
	return &FieldExtractor{now: func() time.Time {
		return time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	}}
}

func TestFieldsFromSampleReceipt(t *testing.T) {
	f := fixedClock()
	fields := f.Extract(provider.RecognitionResult{Text: sampleReceipt})

	assert.Equal(t, "CORNER MARKET", fields.Merchant.Value)
	assert.Equal(t, 0.8, fields.Merchant.Confidence)

	assert.Equal(t, 11.00, fields.Total.Value)
	assert.Equal(t, 0.85, fields.Total.Confidence)

	assert.Equal(t, time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC), fields.Date.Value)
}

func TestMerchantSkipsBoilerplateAndAddress(t *testing.T) {
	text := "Welcome to our store\n123 Main Street\nCORNER MARKET\nMilk 4.99"
	fields := fixedClock().Extract(provider.RecognitionResult{Text: text})
	assert.Equal(t, "CORNER MARKET", fields.Merchant.Value)
	assert.Equal(t, 0.7, fields.Merchant.Confidence, "deeper lines score lower")
}

func TestMerchantMissing(t *testing.T) {
	text := "(555) 123-4567\nwww.example.com"
	fields := fixedClock().Extract(provider.RecognitionResult{Text: text})
	assert.Empty(t, fields.Merchant.Value)
}

func TestTotalPrefersLabeledLineOverSubtotal(t *testing.T) {
	text := "Milk 4.99\nSUBTOTAL 4.99\nTOTAL 5.24"
	fields := fixedClock().Extract(provider.RecognitionResult{Text: text})
	assert.Equal(t, 5.24, fields.Total.Value)
}

func TestTotalFallbackTrailingAmount(t *testing.T) {
	text := "Milk $4.99"
	fields := fixedClock().Extract(provider.RecognitionResult{Text: text})
	assert.Equal(t, 4.99, fields.Total.Value)
	assert.Equal(t, 0.55, fields.Total.Confidence)
}

func TestDateFormats(t *testing.T) {
	f := fixedClock()
	tests := []struct {
		text string
		want time.Time
	}{
		{"date 2024-08-12 end", time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)},
		{"date 8/12/2024 end", time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)},
		{"date 08-12-2024 end", time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		fields := f.Extract(provider.RecognitionResult{Text: tt.text})
		assert.Equal(t, tt.want, fields.Date.Value, "text %q", tt.text)
	}
}

func TestFutureDateRejected(t *testing.T) {
	fields := fixedClock().Extract(provider.RecognitionResult{Text: "date 12/25/2030 end"})
	assert.True(t, fields.Date.Value.IsZero())
}

func TestClassifyCategory(t *testing.T) {
	assert.Equal(t, "Groceries", string(ClassifyCategory("Corner Market", nil)))
	assert.Equal(t, "HomeImprovement", string(ClassifyCategory("The Home Depot #452", nil)))
	assert.Equal(t, "Pharmacy", string(ClassifyCategory("CVS", nil)))

	items := []LineItemCandidate{{Name: "Laptop Stand"}, {Name: "Phone Case"}, {Name: "Coffee"}}
	assert.Equal(t, "Electronics", string(ClassifyCategory("Unbranded Outlet", items)))

	assert.Equal(t, "Other", string(ClassifyCategory("Mystery Shop", nil)))
}
