package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"lifeai-server/internal/model"
)

// OpenAIConfig configures the OpenAI-compatible client.
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string // empty for the default endpoint
	ChatModel      string
	EmbeddingModel string
}

// OpenAIClient wraps the OpenAI-compatible API used for tutor chat, tool
// result generation and embeddings.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	logger         *zap.Logger
}

// NewOpenAIClient creates the client. A non-empty BaseURL redirects all calls
// to a compatible gateway.
func NewOpenAIClient(cfg OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		logger:         logger.Named("OpenAIClient"),
	}
}

// ChatModel reports the configured chat model name.
func (c *OpenAIClient) ChatModel() string {
	return c.chatModel
}

// Embed returns the embedding vector for one text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: []string{text},
	})
	if err != nil {
		observeRequest("openai", c.embeddingModel, "error", time.Since(start).Seconds())
		c.logger.Error("Embedding request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: embedding request: %v", model.ErrGenerationFailed, err)
	}
	observeRequest("openai", c.embeddingModel, "ok", time.Since(start).Seconds())
	observeTokens("openai", c.embeddingModel, resp.Usage.PromptTokens, 0)

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", model.ErrGenerationFailed)
	}
	return resp.Data[0].Embedding, nil
}

// StreamChat runs one streamed completion round. Text deltas are forwarded to
// onDelta as they arrive; the assembled assistant message (including any tool
// calls) is returned once the stream ends.
func (c *OpenAIClient) StreamChat(
	ctx context.Context,
	messages []openai.ChatCompletionMessage,
	tools []openai.Tool,
	onDelta func(string) error,
) (openai.ChatCompletionMessage, error) {
	start := time.Now()
	req := openai.ChatCompletionRequest{
		Model:    c.chatModel,
		Messages: messages,
		Tools:    tools,
		Stream:   true,
		StreamOptions: &openai.StreamOptions{
			IncludeUsage: true,
		},
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		observeRequest("openai", c.chatModel, "error", time.Since(start).Seconds())
		c.logger.Error("Chat stream request failed", zap.Error(err))
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: chat stream: %v", model.ErrGenerationFailed, err)
	}
	defer stream.Close()

	assembled := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
	toolCalls := map[int]*openai.ToolCall{}

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			observeRequest("openai", c.chatModel, "error", time.Since(start).Seconds())
			return openai.ChatCompletionMessage{}, fmt.Errorf("%w: chat stream recv: %v", model.ErrGenerationFailed, err)
		}
		if resp.Usage != nil {
			observeTokens("openai", c.chatModel, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta
		if delta.Content != "" {
			assembled.Content += delta.Content
			if onDelta != nil {
				if err := onDelta(delta.Content); err != nil {
					return openai.ChatCompletionMessage{}, fmt.Errorf("stream consumer failed: %w", err)
				}
			}
		}
		for _, tc := range delta.ToolCalls {
			idx := 0
			if tc.Index != nil {
				idx = *tc.Index
			}
			cur, ok := toolCalls[idx]
			if !ok {
				cur = &openai.ToolCall{Type: tc.Type, Function: openai.FunctionCall{}}
				toolCalls[idx] = cur
			}
			if tc.ID != "" {
				cur.ID = tc.ID
			}
			if tc.Function.Name != "" {
				cur.Function.Name = tc.Function.Name
			}
			cur.Function.Arguments += tc.Function.Arguments
		}
	}

	for i := 0; i < len(toolCalls); i++ {
		if tc, ok := toolCalls[i]; ok {
			assembled.ToolCalls = append(assembled.ToolCalls, *tc)
		}
	}

	observeRequest("openai", c.chatModel, "ok", time.Since(start).Seconds())
	return assembled, nil
}

// GenerateJSON runs a non-streamed completion constrained to a JSON object
// response. Used for quiz and study card generation.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) ([]byte, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		observeRequest("openai", c.chatModel, "error", time.Since(start).Seconds())
		c.logger.Error("JSON generation failed", zap.Error(err))
		return nil, fmt.Errorf("%w: json generation: %v", model.ErrGenerationFailed, err)
	}
	observeRequest("openai", c.chatModel, "ok", time.Since(start).Seconds())
	observeTokens("openai", c.chatModel, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", model.ErrGenerationFailed)
	}
	return []byte(resp.Choices[0].Message.Content), nil
}
