package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/assistant-backend/internal/config"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

var ErrEmptyCompletion = errors.New("empty completion")

// Connector talks to an OpenAI-compatible API for chat completions and embeddings
type Connector struct {
	config config.LLMConfig
	client openai.Client
	logger *zap.Logger
}

func NewConnector(
	cfg config.LLMConfig,
	logger *zap.Logger,
) *Connector {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Connector{
		config: cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Generate sends instruction as a single user message and returns the full completion
func (c *Connector) Generate(ctx context.Context, instruction string) (string, error) {
	ctxzap.Debug(ctx, "generating completion",
		zap.String("model", c.config.ChatModel),
		zap.Int("instruction_length", len(instruction)),
	)

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.config.ChatModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(instruction),
		},
		Temperature: openai.Float(c.config.Temperature),
	})
	if err != nil {
		ctxzap.Error(ctx, "chat completion failed", zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}

	ctxzap.Debug(ctx, "completion generated",
		zap.Int64("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int64("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// Embed returns the embedding vector of text
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.config.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	})
	if err != nil {
		ctxzap.Error(ctx, "embedding failed", zap.Error(err))
		return nil, fmt.Errorf("embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding: empty response")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}

	return vector, nil
}

func (c *Connector) ChatModel() string {
	return c.config.ChatModel
}

func (c *Connector) EmbeddingModel() string {
	return c.config.EmbeddingModel
}
