// Package ocr wraps the local tesseract engine. It is the zero-cost provider
// behind the shared EngineManager handle.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	TessdataDir   string

	PSM int // 6 works well for a uniform block of receipt text
	OEM int // 1 = LSTM; leave 0 to use default

	EnableTSVConfidence bool
}

type Result struct {
	Text       string
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// CheckBinary verifies the tesseract binary answers; used at engine init.
func (e *Extractor) CheckBinary(ctx context.Context) error {
	if _, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version"); err != nil {
		return fmt.Errorf("tesseract unavailable: %w: %s", err, truncate(string(errb), 512))
	}
	return nil
}

// ExtractBytes writes the image to a temp file and runs recognition on it.
func (e *Extractor) ExtractBytes(ctx context.Context, image []byte, ext string) (Result, error) {
	ext = constants.NormalizeExt(ext)
	if ext == "" {
		ext = "png"
	}
	tmp, err := os.CreateTemp("", "rv-ocr-*."+ext)
	if err != nil {
		return Result{}, fmt.Errorf("temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(image); err != nil {
		_ = tmp.Close()
		return Result{}, fmt.Errorf("write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, err
	}
	return e.Extract(ctx, tmp.Name())
}

// Extract runs tesseract on an image file.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res, err := e.extractImage(ctx, path)
	res.Duration = time.Since(start)
	return res, err
}
