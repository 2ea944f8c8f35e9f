// Package app wires configuration into a ready pipeline processor. The cmd
// binaries share this so they agree on defaults and shutdown order.
package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/receipt-vision/internal/common"
	"github.com/joseph-ayodele/receipt-vision/internal/export"
	"github.com/joseph-ayodele/receipt-vision/internal/extract"
	"github.com/joseph-ayodele/receipt-vision/internal/fusion"
	"github.com/joseph-ayodele/receipt-vision/internal/imagequality"
	"github.com/joseph-ayodele/receipt-vision/internal/ocr"
	"github.com/joseph-ayodele/receipt-vision/internal/pipeline"
	"github.com/joseph-ayodele/receipt-vision/internal/provider"
	"github.com/joseph-ayodele/receipt-vision/internal/repository"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

// App is the wired application.
type App struct {
	Config    *common.Config
	Processor *pipeline.Processor
	Store     repository.ImageStore
	Export    *export.Service
	Logger    *slog.Logger

	closers []func() error
}

// Build wires everything from config. Cloud adapters are registered only when
// their keys are configured; the local engine is always registered so the
// pipeline can run with no credentials at all.
func Build(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	registry := provider.NewRegistry()

	manager := provider.NewEngineManager(func() (*ocr.Extractor, error) {
		ex := ocr.NewExtractor(ocr.Config{
			Tesseract:           cfg.OCR.Tesseract,
			TesseractLang:       cfg.OCR.TesseractLang,
			TessdataDir:         cfg.OCR.TessdataDir,
			PSM:                 cfg.OCR.PSM,
			OEM:                 cfg.OCR.OEM,
			EnableTSVConfidence: true,
		}, logger)
		if err := ex.CheckBinary(ctx); err != nil {
			return nil, err
		}
		return ex, nil
	}, logger)
	registry.Register(provider.NewLocalProvider(manager, logger))

	if cfg.Providers.OpenAIAPIKey != "" {
		registry.Register(provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.Providers.OpenAIAPIKey,
			Model:   cfg.Providers.OpenAIModel,
			BaseURL: cfg.Providers.OpenAIBaseURL,
			Timeout: cfg.Providers.Timeout,
		}, logger))
	}
	if cfg.Providers.GeminiAPIKey != "" {
		gp, err := provider.NewGeminiProvider(cfg.Providers.GeminiAPIKey, cfg.Providers.GeminiModel, logger)
		if err != nil {
			logger.Warn("gemini adapter unavailable", "error", err)
		} else {
			registry.Register(gp)
			a.closers = append(a.closers, gp.Close)
		}
	}
	if cfg.Providers.AnthropicAPIKey != "" {
		ap, err := provider.NewAnthropicProvider(cfg.Providers.AnthropicAPIKey, cfg.Providers.AnthropicModel, logger)
		if err != nil {
			logger.Warn("anthropic adapter unavailable", "error", err)
		} else {
			registry.Register(ap)
		}
	}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.closers = append(a.closers, store.Close)

	catalogPath := cfg.Database.ProductsDBPath
	if catalogPath == "" {
		catalogPath = ":memory:"
	}
	catalog, err := repository.OpenProductCatalog(ctx, catalogPath, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, catalog.Close)

	a.Processor = pipeline.NewProcessor(pipeline.Deps{
		Assessor:   imagequality.NewAssessor(logger),
		Registry:   registry,
		Selector:   provider.NewSelector(registry, logger),
		Items:      extract.NewEngine(logger),
		Fields:     extract.NewFieldExtractor(),
		Fuser:      fusion.NewEngine(nil),
		Warranties: warranty.NewEngine(catalog, logger),
		Store:      store,
		Logger:     logger,
	}, cfg.Pipeline.DefaultTimeout)
	a.Export = export.NewService(logger)

	return a, nil
}

func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.ImageStore, error) {
	if cfg.Database.DSN != "" {
		return repository.OpenPG(ctx, repository.PGConfig{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
	}
	return repository.NewBoltImageStore(cfg.Database.BoltPath)
}

// Close releases resources in reverse acquisition order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Error("shutdown", "error", err)
		}
	}
	a.closers = nil
}
