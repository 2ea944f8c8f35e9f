package warranty

import (
	"context"
	"log/slog"
	"sync"
)

// Strategy is one independent warranty extraction approach.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, in Input) []Candidate
}

// Engine fans the strategies out over one input snapshot, stamps expiration
// dates, and drops candidates with insane periods.
type Engine struct {
	strategies []Strategy
	logger     *slog.Logger
}

func NewEngine(catalog ProductCatalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	strategies := []Strategy{
		TextPatternStrategy{},
		CategoryStrategy{},
		MerchantStrategy{},
		NLPStrategy{},
	}
	if catalog != nil {
		strategies = append(strategies, LookupStrategy{Catalog: catalog, Logger: logger})
	}
	return &Engine{strategies: strategies, logger: logger}
}

func (e *Engine) Extract(ctx context.Context, in Input) []Candidate {
	results := make([][]Candidate, len(e.strategies))

	var wg sync.WaitGroup
	for i, s := range e.strategies {
		wg.Add(1)
		go func(i int, s Strategy) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = s.Extract(ctx, in)
		}(i, s)
	}
	wg.Wait()

	var out []Candidate
	for i, s := range e.strategies {
		kept := 0
		for _, c := range results[i] {
			if !c.Period.Sane() {
				e.logger.Warn("warranty.period_rejected",
					"strategy", s.Name(), "item", c.ItemName,
					"years", c.Period.Years, "months", c.Period.Months, "days", c.Period.Days,
				)
				continue
			}
			if c.Expiration.IsZero() {
				c.Expiration = c.Period.ExpirationFrom(in.PurchaseDate)
			}
			out = append(out, c)
			kept++
		}
		e.logger.Debug("warranty.strategy.done", "strategy", s.Name(), "candidates", kept)
	}
	return out
}
