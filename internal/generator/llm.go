package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer sends one prompt to a chat model and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// OpenAIClient is an OpenAI-compatible chat completions client. Each
// Complete call sends a single user message and is not retried.
type OpenAIClient struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewOpenAIClient builds a client from cfg. An empty API key is accepted;
// requests made with it fail at the remote end.
func NewOpenAIClient(cfg LLMConfig, httpClient *http.Client, logger *slog.Logger) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OpenAIClient{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

// Model returns the model identifier requests are sent with.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first
// choice's content.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(c.temperature),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	c.logger.DebugContext(ctx, "llm request", "model", c.model, "prompt_bytes", len(prompt))
	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("llm response has no choices")
	}
	content := resp.Choices[0].Message.Content
	c.logger.DebugContext(ctx, "llm response",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"content", content)
	return content, nil
}

func stripMarkdownCodeBlock(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.Index(trimmed, "\n"); idx != -1 {
			trimmed = trimmed[idx+1:]
		}
		if end := strings.LastIndex(trimmed, "```"); end != -1 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}
	return trimmed
}
