package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// GeminiProvider implements TextRecognitionProvider using Google Gemini.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

func NewGeminiProvider(apiKey, modelName string, logger *slog.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  client.GenerativeModel(modelName),
		log:    logger,
	}, nil
}

func (p *GeminiProvider) ID() constants.ProviderID { return constants.ProviderGemini }

func (p *GeminiProvider) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	start := time.Now()

	// genai.ImageData expects the bare format suffix, not a full MIME type.
	format := extFromMIME(detectImageMIME(image))
	if format == "jpg" {
		format = "jpeg"
	}
	parts := []genai.Part{
		genai.ImageData(format, image),
		genai.Text(recognitionPrompt),
	}

	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return RecognitionResult{}, fmt.Errorf("no response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	res, err := decodeRecognitionPayload(sb.String(), constants.ProviderGemini)
	if err != nil {
		return RecognitionResult{}, err
	}

	p.log.Info("provider.gemini.ok",
		"text_bytes", len(res.Text),
		"confidence", res.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// Close releases the underlying client.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}
