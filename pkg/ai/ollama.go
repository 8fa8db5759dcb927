package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

// OllamaConfig configures the local model used for structured game turns.
type OllamaConfig struct {
	URL         string
	Model       string
	Temperature float64
	MaxTokens   int
}

// OllamaClient generates structured game turns against a local ollama server.
type OllamaClient struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
	logger      *zap.Logger
}

// NewOllamaClient creates the client.
func NewOllamaClient(cfg OllamaConfig, logger *zap.Logger) (*OllamaClient, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", cfg.URL, err)
	}
	return &OllamaClient{
		client:      api.NewClient(base, &http.Client{Timeout: 120 * time.Second}),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      logger.Named("OllamaClient"),
	}, nil
}

// GenerateStructured runs one non-streamed chat completion constrained to the
// given JSON schema and returns the raw response body. The caller owns
// parsing and repair; no retries happen here.
func (c *OllamaClient) GenerateStructured(ctx context.Context, systemPrompt string, schema json.RawMessage) ([]byte, error) {
	start := time.Now()

	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Generate the next scene now."},
		},
		Format: schema,
		Stream: func(b bool) *bool { return &b }(false),
		Options: map[string]interface{}{
			"temperature": c.temperature,
			"num_predict": c.maxTokens,
		},
	}

	var content string
	var promptTokens, completionTokens int
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		content += resp.Message.Content
		if resp.Done {
			promptTokens = resp.PromptEvalCount
			completionTokens = resp.EvalCount
		}
		return nil
	})
	if err != nil {
		observeRequest("ollama", c.model, "error", time.Since(start).Seconds())
		c.logger.Error("Structured generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: ollama chat: %v", model.ErrGenerationFailed, err)
	}

	observeRequest("ollama", c.model, "ok", time.Since(start).Seconds())
	observeTokens("ollama", c.model, promptTokens, completionTokens)

	if !json.Valid([]byte(content)) {
		c.logger.Warn("Model returned invalid JSON", zap.Int("length", len(content)))
		return nil, fmt.Errorf("%w: response is not valid JSON", model.ErrMalformedModelOutput)
	}
	return []byte(content), nil
}
