package warranty

import (
	"context"
	"log/slog"
)

// ProductInfo is the reference record for a known product.
type ProductInfo struct {
	Name         string
	Manufacturer string
	Model        string
	Period       Period
	WarrantyType string
}

// ProductCatalog is the product-lookup collaborator: exact or substring match
// of an item name against a reference table of known products.
type ProductCatalog interface {
	Lookup(ctx context.Context, name string) (*ProductInfo, error)
}

// LookupStrategy resolves items against the catalog. Its candidates carry the
// highest confidence of any strategy since the reference terms are
// authoritative, not inferred.
type LookupStrategy struct {
	Catalog ProductCatalog
	Logger  *slog.Logger
}

func (LookupStrategy) Name() string { return StrategyLookup }

func (s LookupStrategy) Extract(ctx context.Context, in Input) []Candidate {
	var out []Candidate
	for _, item := range in.Items {
		info, err := s.Catalog.Lookup(ctx, item.Name)
		if err != nil {
			s.Logger.Warn("warranty.lookup_failed", "item", item.Name, "error", err)
			continue
		}
		if info == nil {
			continue
		}
		out = append(out, Candidate{
			ItemName:       item.Name,
			Period:         info.Period,
			Type:           info.WarrantyType,
			Confidence:     confLookup,
			SourceStrategy: StrategyLookup,
		})
	}
	return out
}
