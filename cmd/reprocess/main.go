package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/app"
	"github.com/joseph-ayodele/receipt-vision/internal/common"
	"github.com/joseph-ayodele/receipt-vision/internal/pipeline"
)

// reprocess re-runs extraction over a stored image, typically to retry with a
// different hint or budget after a low-confidence first pass.
func main() {
	var (
		hint       = flag.String("hint", "accurate", "quality hint: auto|fast|accurate")
		budget     = flag.Float64("budget", -1, "max provider cost per call; 0 forces local, negative is unbounded")
		timeoutMs  = flag.Int("timeout-ms", 0, "timeout in milliseconds")
		warranties = flag.Bool("warranties", true, "extract warranty candidates")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "reprocess [flags] <image-id-uuid>")
		os.Exit(2)
	}
	imageID, err := uuid.Parse(flag.Arg(0))
	if err != nil {
		logger.Error("invalid image id (must be UUID)", "arg", flag.Arg(0), "error", err)
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

	var budgetLimit *float64
	if *budget >= 0 {
		budgetLimit = budget
	}

	res, err := a.Processor.Reprocess(ctx, pipeline.Request{
		ImageRef:    imageID,
		QualityHint: constants.QualityHint(*hint),
		BudgetLimit: budgetLimit,
		TimeoutMs:   *timeoutMs,
		Warranties:  *warranties,
	})
	if err != nil {
		logger.Error("reprocess failed", "image_id", imageID, "code", common.Code(err), "error", err)
		os.Exit(1)
	}

	enc, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		logger.Error("encoding result", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(enc))
}
