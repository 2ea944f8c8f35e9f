package provider

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/common"
)

// LocalProvider runs the shared tesseract engine. It produces plain text with
// a blended confidence; no positional blocks or tables.
type LocalProvider struct {
	manager *EngineManager
	logger  *slog.Logger
}

func NewLocalProvider(manager *EngineManager, logger *slog.Logger) *LocalProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalProvider{manager: manager, logger: logger}
}

func (p *LocalProvider) ID() constants.ProviderID { return constants.ProviderLocal }

func (p *LocalProvider) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	engine, err := p.manager.Get(ctx)
	if err != nil {
		return RecognitionResult{}, common.WrapError(err, "local engine")
	}

	res, err := engine.ExtractBytes(ctx, image, extFromMIME(detectImageMIME(image)))
	if err != nil {
		return RecognitionResult{}, common.WrapError(err, "local ocr")
	}

	p.logger.Debug("provider.local.ok",
		"bytes", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return RecognitionResult{
		Text:       res.Text,
		Confidence: float64(res.Confidence),
		Provider:   constants.ProviderLocal,
	}, nil
}
