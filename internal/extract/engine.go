package extract

import (
	"context"
	"log/slog"
	"sync"

	"github.com/joseph-ayodele/receipt-vision/internal/provider"
)

// ItemStrategy is one independent line-item extraction approach. Strategies
// receive an immutable snapshot and share no state, so the engine runs them
// concurrently.
type ItemStrategy interface {
	Name() string
	Extract(res provider.RecognitionResult) []LineItemCandidate
}

// Engine fans the registered strategies out over one RecognitionResult.
type Engine struct {
	strategies []ItemStrategy
	logger     *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		strategies: []ItemStrategy{
			PatternStrategy{},
			BlockStrategy{},
			AdvancedPatternStrategy{},
			NLPStrategy{},
			TableStrategy{},
		},
		logger: logger,
	}
}

// ExtractItems runs every strategy and returns the combined, unfused
// candidate list. Order is by strategy registration so fusion output is
// deterministic.
func (e *Engine) ExtractItems(ctx context.Context, res provider.RecognitionResult) []LineItemCandidate {
	results := make([][]LineItemCandidate, len(e.strategies))

	var wg sync.WaitGroup
	for i, s := range e.strategies {
		wg.Add(1)
		go func(i int, s ItemStrategy) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = s.Extract(res)
		}(i, s)
	}
	wg.Wait()

	var out []LineItemCandidate
	for i, s := range e.strategies {
		e.logger.Debug("extract.strategy.done", "strategy", s.Name(), "candidates", len(results[i]))
		out = append(out, results[i]...)
	}
	return out
}
