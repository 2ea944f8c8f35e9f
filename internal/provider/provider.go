// Package provider holds the text-recognition provider catalog, the selection
// policy, and one adapter per engine. Every adapter normalizes its output into
// RecognitionResult so downstream extraction never sees provider-specific shapes.
package provider

import (
	"context"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// Block is a positioned fragment of recognized text.
type Block struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TableCell is one cell of a provider-supplied table structure.
type TableCell struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// Table is an optional structured view some providers return for tabular regions.
type Table struct {
	Cells []TableCell `json:"cells"`
}

// RecognitionResult is the normalized output of any provider. Transient,
// scoped to one request; extraction strategies treat it as immutable.
type RecognitionResult struct {
	Text       string
	Confidence float64 // 0..1
	Blocks     []Block
	Tables     []Table
	Provider   constants.ProviderID
}

// TextRecognitionProvider is the adapter contract. Implementations must honor
// ctx cancellation; the pipeline bounds every call with the request timeout.
type TextRecognitionProvider interface {
	ID() constants.ProviderID
	Recognize(ctx context.Context, image []byte) (RecognitionResult, error)
}
