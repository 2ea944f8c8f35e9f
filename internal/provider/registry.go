package provider

import (
	"sort"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// Descriptor is the static catalog entry for one provider.
type Descriptor struct {
	ID           constants.ProviderID
	CostPerCall  float64 // currency units; 0 for the local engine
	SpeedTier    constants.Tier
	AccuracyTier constants.Tier
	Available    bool
}

// Registry is the process-wide provider catalog. Read-only after startup.
type Registry struct {
	entries map[constants.ProviderID]Descriptor
	adapter map[constants.ProviderID]TextRecognitionProvider
}

// DefaultDescriptors is the shipped catalog. Availability is overridden at
// registration time based on which adapters were actually constructed.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{ID: constants.ProviderLocal, CostPerCall: 0, SpeedTier: constants.TierMedium, AccuracyTier: constants.TierLow},
		{ID: constants.ProviderOpenAI, CostPerCall: 0.010, SpeedTier: constants.TierMedium, AccuracyTier: constants.TierHigh},
		{ID: constants.ProviderGemini, CostPerCall: 0.005, SpeedTier: constants.TierHigh, AccuracyTier: constants.TierMedium},
		{ID: constants.ProviderAnthropic, CostPerCall: 0.015, SpeedTier: constants.TierLow, AccuracyTier: constants.TierHigh},
	}
}

func NewRegistry() *Registry {
	r := &Registry{
		entries: make(map[constants.ProviderID]Descriptor),
		adapter: make(map[constants.ProviderID]TextRecognitionProvider),
	}
	for _, d := range DefaultDescriptors() {
		r.entries[d.ID] = d
	}
	return r
}

// Register attaches an adapter and marks its descriptor available.
func (r *Registry) Register(p TextRecognitionProvider) {
	d, ok := r.entries[p.ID()]
	if !ok {
		d = Descriptor{ID: p.ID(), SpeedTier: constants.TierMedium, AccuracyTier: constants.TierMedium}
	}
	d.Available = true
	r.entries[p.ID()] = d
	r.adapter[p.ID()] = p
}

// Adapter returns the registered adapter for an ID, if any.
func (r *Registry) Adapter(id constants.ProviderID) (TextRecognitionProvider, bool) {
	p, ok := r.adapter[id]
	return p, ok
}

// Descriptor returns the catalog entry for an ID.
func (r *Registry) Descriptor(id constants.ProviderID) (Descriptor, bool) {
	d, ok := r.entries[id]
	return d, ok
}

// Available lists available descriptors in a stable order.
func (r *Registry) Available() []Descriptor {
	out := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		if d.Available {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
