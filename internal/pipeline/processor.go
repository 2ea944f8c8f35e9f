package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/common"
	"github.com/joseph-ayodele/receipt-vision/internal/extract"
	"github.com/joseph-ayodele/receipt-vision/internal/fusion"
	"github.com/joseph-ayodele/receipt-vision/internal/imagequality"
	"github.com/joseph-ayodele/receipt-vision/internal/ocr"
	"github.com/joseph-ayodele/receipt-vision/internal/provider"
	"github.com/joseph-ayodele/receipt-vision/internal/repository"
	"github.com/joseph-ayodele/receipt-vision/internal/score"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

// Deps are the processor's collaborators. Store and Warranties are optional;
// everything else is required.
type Deps struct {
	Assessor   *imagequality.Assessor
	Registry   *provider.Registry
	Selector   *provider.Selector
	Items      *extract.Engine
	Fields     *extract.FieldExtractor
	Fuser      *fusion.Engine
	Warranties *warranty.Engine
	Store      repository.ImageStore
	Logger     *slog.Logger
}

// Processor runs the whole extraction pipeline for one request at a time.
// It is safe for concurrent use; all per-request state lives on the stack.
type Processor struct {
	deps           Deps
	defaultTimeout time.Duration
}

func NewProcessor(deps Deps, defaultTimeout time.Duration) *Processor {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if defaultTimeout <= 0 {
		defaultTimeout = 30 * time.Second
	}
	return &Processor{deps: deps, defaultTimeout: defaultTimeout}
}

// Process extracts structured data from one receipt image.
func (p *Processor) Process(ctx context.Context, req Request) (*ExtractionResult, error) {
	start := time.Now()

	if len(req.Image) == 0 {
		if req.ImageRef == uuid.Nil {
			return nil, common.InputError("no image supplied")
		}
		return p.Reprocess(ctx, req)
	}

	reqID := uuid.NewString()
	ctx = common.WithRequestID(ctx, reqID)
	logger := p.deps.Logger.With("req_id", reqID)

	timeout := p.defaultTimeout
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	profile := p.deps.Assessor.Assess(req.Image)
	sel := p.deps.Selector.Select(profile.Score, req.QualityHint, req.BudgetLimit, int(timeout.Milliseconds()))

	res, resultQuality, fallbackUsed, err := p.recognize(ctx, sel, req.Image, profile.Score, logger)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(res.Text) == "" {
		return nil, common.NoTextFoundError("recognition produced empty text")
	}
	res.Text = ocr.Normalize(res.Text)

	result := p.assemble(ctx, res, logger)
	result.Metadata.RequestID = reqID
	result.Metadata.Provider = res.Provider
	result.Metadata.SelectionReason = sel.Reason
	result.Metadata.ImageQuality = profile.Score
	result.Metadata.ResultQuality = resultQuality
	if fallbackUsed {
		result.addFlag(constants.FlagFallbackUsed)
	}
	if resultQuality < constants.ResultQualityLowThreshold {
		result.addFlag(constants.FlagLowConfidence)
		result.addFlag(constants.FlagNeedsReview)
	}
	if sel.Reason == provider.ReasonBudgetFallback {
		result.addFlag(constants.FlagBudgetExhausted)
	}

	if req.Warranties {
		result.Warranties = p.extractWarranties(ctx, res.Text, result)
	}

	if req.Persist && p.deps.Store != nil {
		if id, err := p.persist(ctx, req); err != nil {
			logger.Warn("pipeline.persist_failed", "error", err)
		} else {
			result.Metadata.ImageID = id
		}
	}

	result.Metadata.Duration = time.Since(start)
	logger.Info("pipeline.done",
		"provider", result.Metadata.Provider,
		"merchant", result.MerchantName,
		"total", result.TotalAmount,
		"items", len(result.Items),
		"confidence", result.Confidence,
		"flags", result.Metadata.Flags,
		"duration", result.Metadata.Duration,
	)
	return result, nil
}

// Reprocess re-runs extraction over a stored image, typically with different
// hints or budget than the original run.
func (p *Processor) Reprocess(ctx context.Context, req Request) (*ExtractionResult, error) {
	if p.deps.Store == nil {
		return nil, common.InputError("no image store configured")
	}
	img, err := p.deps.Store.Get(ctx, req.ImageRef)
	if err != nil {
		return nil, err
	}
	req.Image = img.Data
	req.ImageExt = img.Ext
	req.Persist = false

	result, err := p.Process(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Metadata.ImageID = img.ID
	return result, nil
}

// recognize runs the primary provider and escalates to the designated
// fallback when the primary fails outright or scores below the quality floor.
// The higher-scoring result wins.
func (p *Processor) recognize(ctx context.Context, sel provider.Selection, image []byte, imageQuality float64, logger *slog.Logger) (provider.RecognitionResult, float64, bool, error) {
	primary, ok := p.deps.Registry.Adapter(sel.Primary)
	if !ok {
		return provider.RecognitionResult{}, 0, false, common.EngineUnavailableError("primary provider not registered", nil)
	}

	primaryRes, primaryErr := primary.Recognize(ctx, image)
	if primaryErr != nil {
		logger.Warn("pipeline.primary_failed", "provider", sel.Primary, "error", primaryErr)
	}
	var primaryScore float64
	if primaryErr == nil {
		primaryScore = provider.AssessResult(primaryRes, imageQuality)
		if primaryScore >= constants.ResultQualityLowThreshold {
			return primaryRes, primaryScore, false, nil
		}
		logger.Info("pipeline.low_quality_result", "provider", sel.Primary, "score", primaryScore)
	}

	if err := ctx.Err(); err != nil {
		return provider.RecognitionResult{}, 0, false, common.TimeoutError("recognition exceeded deadline")
	}

	fallback, ok := p.deps.Registry.Adapter(sel.Fallback)
	if !ok {
		if primaryErr == nil {
			return primaryRes, primaryScore, false, nil
		}
		return provider.RecognitionResult{}, 0, false, common.EngineUnavailableError("primary failed, no fallback", primaryErr)
	}

	fallbackRes, fallbackErr := fallback.Recognize(ctx, image)
	if fallbackErr != nil {
		logger.Warn("pipeline.fallback_failed", "provider", sel.Fallback, "error", fallbackErr)
		if primaryErr == nil {
			return primaryRes, primaryScore, false, nil
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return provider.RecognitionResult{}, 0, false, common.TimeoutError("recognition exceeded deadline")
		}
		return provider.RecognitionResult{}, 0, false, common.EngineUnavailableError("all providers failed", errors.Join(primaryErr, fallbackErr))
	}

	fallbackScore := provider.AssessResult(fallbackRes, imageQuality)
	if primaryErr == nil && primaryScore >= fallbackScore {
		return primaryRes, primaryScore, false, nil
	}
	return fallbackRes, fallbackScore, true, nil
}

// assemble runs field and item extraction concurrently, fuses candidates, and
// scores the combined result.
func (p *Processor) assemble(ctx context.Context, res provider.RecognitionResult, logger *slog.Logger) *ExtractionResult {
	var (
		fields     extract.Fields
		candidates []extract.LineItemCandidate
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		candidates = p.deps.Items.ExtractItems(ctx, res)
	}()
	fields = p.deps.Fields.Extract(res)
	<-done

	fused := p.deps.Fuser.FuseItems(candidates)
	items := make([]LineItem, 0, len(fused))
	prices := make([]float64, 0, len(fused))
	for _, c := range fused {
		items = append(items, LineItem{
			Name:       c.Name,
			Quantity:   c.Quantity,
			UnitPrice:  c.UnitPrice,
			TotalPrice: c.TotalPrice,
			Confidence: c.Confidence,
		})
		prices = append(prices, c.TotalPrice)
	}

	result := &ExtractionResult{
		MerchantName: fields.Merchant.Value,
		TotalAmount:  fields.Total.Value,
		PurchaseDate: fields.Date.Value,
		Category:     extract.ClassifyCategory(fields.Merchant.Value, fused),
		Items:        items,
	}

	result.Confidence = score.Confidence(score.Inputs{
		RecognitionConfidence: res.Confidence,
		Merchant:              result.MerchantName,
		Total:                 result.TotalAmount,
		ItemCount:             len(items),
	})
	result.Metadata.Validation = score.ValidateTotal(prices, result.TotalAmount)

	if result.Metadata.Validation.Mismatch {
		result.addFlag(constants.FlagValidationMismatch)
		logger.Info("pipeline.total_mismatch",
			"item_sum", result.Metadata.Validation.ItemSum,
			"declared", result.Metadata.Validation.DeclaredTotal,
		)
	}
	if result.Confidence < constants.LowConfidenceThreshold {
		result.addFlag(constants.FlagLowConfidence)
		result.addFlag(constants.FlagNeedsReview)
	}
	return result
}

func (p *Processor) extractWarranties(ctx context.Context, text string, result *ExtractionResult) []warranty.Candidate {
	if p.deps.Warranties == nil {
		return nil
	}
	items := make([]warranty.Item, 0, len(result.Items))
	for _, it := range result.Items {
		items = append(items, warranty.Item{Name: it.Name, Price: it.TotalPrice})
	}
	cands := p.deps.Warranties.Extract(ctx, warranty.Input{
		Text:         text,
		Merchant:     result.MerchantName,
		Total:        result.TotalAmount,
		PurchaseDate: result.PurchaseDate,
		Items:        items,
	})
	return p.deps.Fuser.FuseWarranties(cands)
}

func (p *Processor) persist(ctx context.Context, req Request) (uuid.UUID, error) {
	sum := sha256.Sum256(req.Image)
	img := repository.StoredImage{
		ID:        uuid.New(),
		Data:      req.Image,
		Ext:       imageExt(req),
		SHA256:    hex.EncodeToString(sum[:]),
		SizeBytes: int64(len(req.Image)),
	}
	if err := p.deps.Store.Put(ctx, img); err != nil {
		return uuid.Nil, err
	}
	return img.ID, nil
}

func imageExt(req Request) string {
	if req.ImageExt != "" {
		return constants.NormalizeExt(req.ImageExt)
	}
	switch http.DetectContentType(req.Image) {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
