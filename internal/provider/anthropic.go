package provider

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

// AnthropicProvider implements TextRecognitionProvider using Claude's
// messages API with a base64 image block.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	log    *slog.Logger
}

func NewAnthropicProvider(apiKey, model string, logger *slog.Logger) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		log:    logger,
	}, nil
}

func (p *AnthropicProvider) ID() constants.ProviderID { return constants.ProviderAnthropic }

func (p *AnthropicProvider) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	start := time.Now()

	mt := detectImageMIME(image)
	encoded := base64.StdEncoding.EncodeToString(image)

	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mt, encoded),
				anthropic.NewTextBlock(recognitionPrompt),
			),
		},
	})
	if err != nil {
		return RecognitionResult{}, fmt.Errorf("anthropic messages: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return RecognitionResult{}, fmt.Errorf("no text content in anthropic response")
	}

	res, err := decodeRecognitionPayload(sb.String(), constants.ProviderAnthropic)
	if err != nil {
		return RecognitionResult{}, err
	}

	p.log.Info("provider.anthropic.ok",
		"text_bytes", len(res.Text),
		"confidence", res.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}
