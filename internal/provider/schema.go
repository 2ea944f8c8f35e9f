package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// recognitionPrompt instructs a vision model to transcribe the document into
// the normalized payload every cloud adapter shares.
const recognitionPrompt = `Transcribe every piece of text visible in this document image.
Respond with ONLY a JSON object of this shape:
{
  "text": "<full transcription, preserving line breaks>",
  "confidence": <your 0..1 estimate of transcription accuracy>,
  "blocks": [{"text": "...", "x": 0, "y": 0, "width": 0, "height": 0}],
  "tables": [{"cells": [{"row": 0, "col": 0, "text": "..."}]}]
}
Include blocks for visually distinct regions when you can estimate positions
(normalized 0..1 coordinates), and tables only for genuinely tabular regions.
Do not wrap the JSON in markdown fences.`

// recognitionPayload is the wire shape cloud providers return.
type recognitionPayload struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Blocks     []Block `json:"blocks,omitempty"`
	Tables     []Table `json:"tables,omitempty"`
}

// BuildRecognitionJSONSchema returns the payload schema as a generic map.
// Used both as a structured-output hint and to validate locally before decoding.
func BuildRecognitionJSONSchema() map[string]any {
	blockProps := map[string]any{
		"text":       map[string]any{"type": "string"},
		"x":          map[string]any{"type": "number"},
		"y":          map[string]any{"type": "number"},
		"width":      map[string]any{"type": "number"},
		"height":     map[string]any{"type": "number"},
		"confidence": map[string]any{"type": "number"},
	}
	cellProps := map[string]any{
		"row":  map[string]any{"type": "integer"},
		"col":  map[string]any{"type": "integer"},
		"text": map[string]any{"type": "string"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []string{"text"},
		"properties": map[string]any{
			"text":       map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"blocks": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object", "properties": blockProps},
			},
			"tables": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"cells": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "object", "properties": cellProps},
						},
					},
				},
			},
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// decodeRecognitionPayload strips markdown fences some models still emit,
// validates against the schema, and normalizes into a RecognitionResult.
func decodeRecognitionPayload(raw string, id constants.ProviderID) (RecognitionResult, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if err := ValidateJSONAgainstSchema(BuildRecognitionJSONSchema(), []byte(text)); err != nil {
		return RecognitionResult{}, fmt.Errorf("%s payload: %w", id, err)
	}

	var p recognitionPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return RecognitionResult{}, fmt.Errorf("%s payload decode: %w", id, err)
	}
	if p.Confidence < 0 {
		p.Confidence = 0
	}
	if p.Confidence > 1 {
		p.Confidence = 1
	}
	return RecognitionResult{
		Text:       p.Text,
		Confidence: p.Confidence,
		Blocks:     p.Blocks,
		Tables:     p.Tables,
		Provider:   id,
	}, nil
}

func detectImageMIME(image []byte) string {
	mt := http.DetectContentType(image)
	if !strings.HasPrefix(mt, "image/") {
		return "image/png"
	}
	return mt
}

func extFromMIME(mt string) string {
	switch mt {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}
