package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-vision/constants"
)

type OpenAIConfig struct {
	APIKey      string
	Model       string // default "gpt-4o-mini"
	BaseURL     string // default "https://api.openai.com/v1"
	Temperature float32
	Timeout     time.Duration
}

// OpenAIProvider calls the vision chat/completions endpoint directly over
// net/http; the payload contract is recognitionPrompt + the shared schema.
type OpenAIProvider struct {
	cfg        OpenAIConfig
	httpClient *http.Client
	log        *slog.Logger
}

func NewOpenAIProvider(cfg OpenAIConfig, logger *slog.Logger) *OpenAIProvider {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	return &OpenAIProvider{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger,
	}
}

func (p *OpenAIProvider) ID() constants.ProviderID { return constants.ProviderOpenAI }

func (p *OpenAIProvider) Recognize(ctx context.Context, image []byte) (RecognitionResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	mt := detectImageMIME(image)
	dataURL := "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(image)

	p.log.Info("provider.openai.start",
		"req_id", rid, "model", p.cfg.Model, "image_bytes", len(image), "mime", mt,
	)

	body := map[string]any{
		"model":           p.cfg.Model,
		"temperature":     p.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": recognitionPrompt},
			{"role": "user", "content": []map[string]any{
				{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
			}},
		},
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := p.post(ctx, endpoint, body)
	if err != nil {
		p.log.Error("provider.openai.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return RecognitionResult{}, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return RecognitionResult{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return RecognitionResult{}, fmt.Errorf("no choices in openai response")
	}

	res, err := decodeRecognitionPayload(cc.Choices[0].Message.Content, constants.ProviderOpenAI)
	if err != nil {
		p.log.Error("provider.openai.payload_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds(),
		)
		return RecognitionResult{}, err
	}

	p.log.Info("provider.openai.ok",
		"req_id", rid,
		"text_bytes", len(res.Text),
		"confidence", res.Confidence,
		"blocks", len(res.Blocks),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *OpenAIProvider) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			p.log.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
