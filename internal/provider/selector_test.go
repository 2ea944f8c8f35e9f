package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

type stubProvider struct {
	id  constants.ProviderID
	res RecognitionResult
	err error
}

func (s stubProvider) ID() constants.ProviderID { return s.id }

func (s stubProvider) Recognize(context.Context, []byte) (RecognitionResult, error) {
	return s.res, s.err
}

func fullRegistry() *Registry {
	r := NewRegistry()
	for _, id := range []constants.ProviderID{
		constants.ProviderLocal,
		constants.ProviderOpenAI,
		constants.ProviderGemini,
		constants.ProviderAnthropic,
	} {
		r.Register(stubProvider{id: id})
	}
	return r
}

func floatPtr(v float64) *float64 { return &v }

func TestSelectOnlyProvider(t *testing.T) {
	r := NewRegistry()
	r.Register(stubProvider{id: constants.ProviderLocal})
	s := NewSelector(r, nil)

	sel := s.Select(0.9, constants.HintAuto, nil, 30000)
	assert.Equal(t, constants.ProviderLocal, sel.Primary)
	assert.Empty(t, sel.Fallback)
}

func TestSelectZeroBudgetForcesLocal(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	sel := s.Select(0.95, constants.HintAccurate, floatPtr(0), 60000)
	assert.Equal(t, constants.ProviderLocal, sel.Primary)
}

func TestSelectHighQualityFastHint(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	sel := s.Select(0.9, constants.HintFast, nil, 60000)
	assert.Equal(t, constants.ProviderGemini, sel.Primary)
	assert.Equal(t, constants.ProviderLocal, sel.Fallback)
}

func TestSelectHighQualityTightTimeout(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	sel := s.Select(0.9, constants.HintAuto, nil, 5000)
	assert.Equal(t, constants.ProviderGemini, sel.Primary)
}

func TestSelectHighQualityAccuracyPreferred(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	sel := s.Select(0.9, constants.HintAuto, nil, 60000)
	assert.Equal(t, constants.ProviderAnthropic, sel.Primary)
	assert.Equal(t, constants.ProviderLocal, sel.Fallback)
}

func TestSelectDegradedImageWantsAccuracy(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	for _, quality := range []float64{0.2, 0.5, 0.7} {
		sel := s.Select(quality, constants.HintAuto, nil, 60000)
		assert.Equal(t, constants.ProviderAnthropic, sel.Primary, "quality %v", quality)
	}
}

func TestSelectBudgetFiltersExpensiveProviders(t *testing.T) {
	s := NewSelector(fullRegistry(), nil)

	// anthropic (0.015) and openai (0.010) exceed the budget, gemini (0.005) fits
	sel := s.Select(0.9, constants.HintAuto, floatPtr(0.007), 60000)
	assert.Equal(t, constants.ProviderGemini, sel.Primary)
	assert.Equal(t, constants.ProviderLocal, sel.Fallback)
}

func TestSelectBudgetExhaustedFallsBackToLocal(t *testing.T) {
	r := NewRegistry()
	r.Register(stubProvider{id: constants.ProviderAnthropic})
	r.Register(stubProvider{id: constants.ProviderOpenAI})
	r.Register(stubProvider{id: constants.ProviderGemini})
	s := NewSelector(r, nil)

	sel := s.Select(0.9, constants.HintAuto, floatPtr(0.001), 60000)
	assert.Equal(t, constants.ProviderLocal, sel.Primary)
	assert.Equal(t, ReasonBudgetFallback, sel.Reason)
}

func TestSelectUnavailableProvidersSkipped(t *testing.T) {
	r := NewRegistry()
	r.Register(stubProvider{id: constants.ProviderLocal})
	r.Register(stubProvider{id: constants.ProviderGemini})
	s := NewSelector(r, nil)

	// anthropic and openai rank higher for accuracy but are not registered
	sel := s.Select(0.9, constants.HintAuto, nil, 60000)
	assert.Equal(t, constants.ProviderGemini, sel.Primary)
}

func TestRegistryAvailableSorted(t *testing.T) {
	r := fullRegistry()
	avail := r.Available()
	require.Len(t, avail, 4)
	for i := 1; i < len(avail); i++ {
		assert.Less(t, avail[i-1].ID, avail[i].ID)
	}
}
