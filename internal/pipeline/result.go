// Package pipeline orchestrates one receipt through quality assessment,
// provider selection, recognition, ensemble extraction, fusion and scoring.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-vision/constants"
	"github.com/joseph-ayodele/receipt-vision/internal/score"
	"github.com/joseph-ayodele/receipt-vision/internal/warranty"
)

// Request is one extraction job. Exactly one of Image or ImageRef is set:
// Image carries fresh bytes, ImageRef reprocesses a stored image.
type Request struct {
	Image       []byte
	ImageExt    string // "jpg", "png"; detected from content when empty
	ImageRef    uuid.UUID
	QualityHint constants.QualityHint
	BudgetLimit *float64 // nil: unbounded; 0: local only
	TimeoutMs   int      // 0: processor default
	Warranties  bool
	Persist     bool // store the image for later reprocessing
}

// LineItem is one fused purchased item.
type LineItem struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	Confidence float64 `json:"confidence"`
}

// Metadata records how the result was produced. Flags are advisory; a result
// with flags is still a successful result.
type Metadata struct {
	RequestID       string             `json:"request_id"`
	ImageID         uuid.UUID          `json:"image_id,omitempty"`
	Provider        constants.ProviderID `json:"provider"`
	SelectionReason string             `json:"selection_reason"`
	ImageQuality    float64            `json:"image_quality"`
	ResultQuality   float64            `json:"result_quality"`
	Validation      score.Validation   `json:"validation"`
	Flags           []constants.Flag   `json:"flags,omitempty"`
	Duration        time.Duration      `json:"duration"`
}

// ExtractionResult is the pipeline's final answer for one receipt.
type ExtractionResult struct {
	MerchantName string               `json:"merchant_name"`
	TotalAmount  float64              `json:"total_amount"`
	PurchaseDate time.Time            `json:"purchase_date,omitempty"`
	Category     constants.Category   `json:"category"`
	Items        []LineItem           `json:"items"`
	Warranties   []warranty.Candidate `json:"warranties,omitempty"`
	Confidence   float64              `json:"confidence"`
	Metadata     Metadata             `json:"metadata"`
}

func (r *ExtractionResult) addFlag(f constants.Flag) {
	for _, existing := range r.Metadata.Flags {
		if existing == f {
			return
		}
	}
	r.Metadata.Flags = append(r.Metadata.Flags, f)
}
