package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

const sampleReceipt = `CORNER MARKET
123 Main Street
(555) 123-4567
08/12/2024 10:32 AM

Organic Milk 4.99
Apples 2 x 1.50 = 3.00
Bread @ 2.49 = 2.49

SUBTOTAL 10.48
TAX 0.52
TOTAL $11.00
VISA **** 1234
www.cornermarket.com`

func TestPatternStrategyBasicLines(t *testing.T) {
	items := PatternStrategy{}.Extract(provider.RecognitionResult{Text: sampleReceipt})
	require.Len(t, items, 3)

	byName := map[string]LineItemCandidate{}
	for _, it := range items {
		byName[it.Name] = it
	}

	milk := byName["Organic Milk"]
	assert.Equal(t, 4.99, milk.TotalPrice)
	assert.Equal(t, 1.0, milk.Quantity)
	assert.Equal(t, confPattern, milk.Confidence)

	apples := byName["Apples"]
	assert.Equal(t, 2.0, apples.Quantity)
	assert.Equal(t, 1.50, apples.UnitPrice)
	assert.Equal(t, 3.00, apples.TotalPrice)
	assert.Equal(t, confPatternQ, apples.Confidence)

	bread := byName["Bread"]
	assert.Equal(t, 2.49, bread.TotalPrice)
	assert.Equal(t, 1.0, bread.Quantity)
}

func TestPatternStrategySkipsNonItemLines(t *testing.T) {
	items := PatternStrategy{}.Extract(provider.RecognitionResult{Text: sampleReceipt})
	for _, it := range items {
		assert.NotContains(t, it.Name, "TOTAL")
		assert.NotContains(t, it.Name, "TAX")
		assert.NotContains(t, it.Name, "VISA")
	}
}

func TestPatternStrategySanityRules(t *testing.T) {
	text := "X 4.99\nFancy Espresso Machine 99999.00\nFree Sample 0.00"
	items := PatternStrategy{}.Extract(provider.RecognitionResult{Text: text})
	assert.Empty(t, items, "one-char names, absurd prices and zero totals are rejected")
}

func TestCleanItemName(t *testing.T) {
	assert.Equal(t, "Organic Milk", cleanItemName("  **Organic Milk# -"))
	assert.Equal(t, "Milk 2%", cleanItemName("Milk 2%"))
}

func TestIsNonItemLine(t *testing.T) {
	nonItems := []string{
		"(555) 123-4567",
		"www.cornermarket.com",
		"TOTAL $11.00",
		"Sub Total 10.48",
		"10:32 AM",
		"08/12/2024",
		"CASH 20.00",
	}
	for _, line := range nonItems {
		assert.True(t, isNonItemLine(line), "line %q", line)
	}
	assert.False(t, isNonItemLine("Organic Milk 4.99"))
}
