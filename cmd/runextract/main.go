package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/app"
	"github.com/joseph-ayodele/receipt-vision/internal/common"
	"github.com/joseph-ayodele/receipt-vision/internal/pipeline"
)

func main() {
	var (
		path       = flag.String("path", "", "image file or directory of images (required)")
		out        = flag.String("out", "", "output XLSX path (optional; defaults next to input)")
		hint       = flag.String("hint", "auto", "quality hint: auto|fast|accurate")
		budget     = flag.Float64("budget", -1, "max provider cost per call; 0 forces local, negative is unbounded")
		timeoutMs  = flag.Int("timeout-ms", 0, "per-receipt timeout in milliseconds")
		warranties = flag.Bool("warranties", true, "extract warranty candidates")
		persist    = flag.Bool("persist", false, "store images for later reprocessing")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *path == "" {
		logger.Error("usage", "cmd", "runextract --path <image-or-dir>")
		os.Exit(2)
	}
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := common.LoadConfig()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	files, err := collectImages(*path)
	if err != nil {
		logger.Error("collecting inputs", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("no supported images found", "path", *path)
		os.Exit(1)
	}

	var budgetLimit *float64
	if *budget >= 0 {
		budgetLimit = budget
	}

	var (
		results  []*pipeline.ExtractionResult
		failures int
	)
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Error("reading image", "file", file, "error", err)
			failures++
			continue
		}
		res, err := a.Processor.Process(ctx, pipeline.Request{
			Image:       data,
			ImageExt:    filepath.Ext(file),
			QualityHint: constants.QualityHint(*hint),
			BudgetLimit: budgetLimit,
			TimeoutMs:   *timeoutMs,
			Warranties:  *warranties,
			Persist:     *persist,
		})
		if err != nil {
			logger.Error("extraction failed", "file", file, "code", common.Code(err), "error", err)
			failures++
			continue
		}
		results = append(results, res)
		printResult(file, res)
	}

	if len(results) > 0 {
		dest := *out
		if dest == "" {
			dest = filepath.Join(filepath.Dir(files[0]), "receipts.xlsx")
		}
		xlsx, err := a.Export.ResultsXLSX(results)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(dest, xlsx, 0644); err != nil {
			logger.Error("writing workbook", "path", dest, "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", dest, "receipts", len(results))
	}

	logger.Info("done", "processed", len(results), "failures", failures)
	if failures > 0 && len(results) == 0 {
		os.Exit(1)
	}
}

func collectImages(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.IsAllowedExt(filepath.Ext(e.Name())) {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func printResult(file string, res *pipeline.ExtractionResult) {
	enc, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return
	}
	fmt.Printf("%s %s\n%s\n", strings.Repeat("-", 8), file, enc)
}
