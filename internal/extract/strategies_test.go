package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

func TestBlockStrategyGroupsByVerticalProximity(t *testing.T) {
	res := provider.RecognitionResult{
		Blocks: []provider.Block{
			{Text: "Organic Milk", X: 0.1, Y: 0.300},
			{Text: "4.99", X: 0.8, Y: 0.301},
			{Text: "Paper Towels", X: 0.1, Y: 0.350},
			{Text: "8.49", X: 0.8, Y: 0.351},
		},
	}

	items := BlockStrategy{}.Extract(res)
	require.Len(t, items, 2)
	assert.Equal(t, "Organic Milk", items[0].Name)
	assert.Equal(t, 4.99, items[0].TotalPrice)
	assert.Equal(t, "Paper Towels", items[1].Name)
	assert.Equal(t, 8.49, items[1].TotalPrice)
}

func TestBlockStrategyNoBlocksNoItems(t *testing.T) {
	assert.Empty(t, BlockStrategy{}.Extract(provider.RecognitionResult{Text: "Milk 4.99"}))
}

func TestTableStrategyReadsRows(t *testing.T) {
	res := provider.RecognitionResult{
		Tables: []provider.Table{{
			Cells: []provider.TableCell{
				{Row: 1, Col: 2, Text: "4.99"},
				{Row: 1, Col: 1, Text: "Organic Milk"},
				{Row: 2, Col: 1, Text: "Paper Towels"},
				{Row: 2, Col: 2, Text: "$8.49"},
				{Row: 3, Col: 1, Text: "TOTAL"},
				{Row: 3, Col: 2, Text: "13.48"},
			},
		}},
	}

	items := TableStrategy{}.Extract(res)
	require.Len(t, items, 2)
	assert.Equal(t, "Organic Milk", items[0].Name)
	assert.Equal(t, "Paper Towels", items[1].Name)
	assert.Equal(t, confTable, items[0].Confidence)
}

func TestAdvancedStrategyDeptPrefixAndTaxFlag(t *testing.T) {
	text := "0070462 KITCHEN TOWELS 6.99 T\nBATTERIES AA 12.49 F"
	items := AdvancedPatternStrategy{}.Extract(provider.RecognitionResult{Text: text})
	require.Len(t, items, 2)
	assert.Equal(t, "KITCHEN TOWELS", items[0].Name)
	assert.Equal(t, 6.99, items[0].TotalPrice)
	assert.Equal(t, "BATTERIES AA", items[1].Name)
}

func TestAdvancedStrategyMultiLineContinuation(t *testing.T) {
	text := "Extension Cord\n12.99 T"
	items := AdvancedPatternStrategy{}.Extract(provider.RecognitionResult{Text: text})
	require.Len(t, items, 1)
	assert.Equal(t, "Extension Cord", items[0].Name)
	assert.Equal(t, 12.99, items[0].TotalPrice)
}

func TestNLPStrategyPairsPhraseWithLastPrice(t *testing.T) {
	text := "Fuji Apples 1.99 3.98"
	items := NLPStrategy{}.Extract(provider.RecognitionResult{Text: text})
	require.Len(t, items, 1)
	assert.Equal(t, "Fuji Apples", items[0].Name)
	assert.Equal(t, 3.98, items[0].TotalPrice)
	assert.Equal(t, confNLP, items[0].Confidence)
}

func TestNLPStrategyIgnoresPricelessLines(t *testing.T) {
	assert.Empty(t, NLPStrategy{}.Extract(provider.RecognitionResult{Text: "Thanks for shopping"}))
}

func TestEngineCombinesStrategies(t *testing.T) {
	e := NewEngine(nil)
	res := provider.RecognitionResult{
		Text: "Organic Milk 4.99",
		Blocks: []provider.Block{
			{Text: "Organic Milk", X: 0.1, Y: 0.2},
			{Text: "4.99", X: 0.8, Y: 0.2},
		},
	}

	items := e.ExtractItems(context.Background(), res)
	strategies := map[string]bool{}
	for _, it := range items {
		strategies[it.SourceStrategy] = true
	}
	assert.True(t, strategies[StrategyPattern])
	assert.True(t, strategies[StrategyBlocks])
}

func TestEngineDeterministicOrder(t *testing.T) {
	e := NewEngine(nil)
	res := provider.RecognitionResult{Text: "Organic Milk 4.99\nPaper Towels 8.49"}

	first := e.ExtractItems(context.Background(), res)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.ExtractItems(context.Background(), res))
	}
}
