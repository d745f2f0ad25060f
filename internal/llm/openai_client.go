// ABOUTME: OpenAI client for embeddings and chat completions
// ABOUTME: Adds client-side rate limiting, per-attempt timeouts, and retry with backoff
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harper/proposal-forge/internal/config"
	"github.com/harper/proposal-forge/internal/util"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	ChatModel         string
	EmbeddingModel    string
	MaxRetries        int
	RetryDelay        time.Duration
	Timeout           time.Duration
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:            apiKey,
		ChatModel:         DefaultChatModel,
		EmbeddingModel:    DefaultEmbeddingModel,
		MaxRetries:        3,
		RetryDelay:        2 * time.Second,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2,
	}
}

// ConfigFrom builds a client configuration from application settings
func ConfigFrom(cfg *config.Config) *ClientConfig {
	return &ClientConfig{
		APIKey:            cfg.OpenAIKey,
		BaseURL:           cfg.OpenAIBaseURL,
		ChatModel:         cfg.ChatModel,
		EmbeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        cfg.MaxRetries,
		RetryDelay:        cfg.RetryDelay,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
}

// Message is one earlier turn of a conversation
type Message struct {
	Role    string
	Content string
}

// ChatRequest is a completion request. History turns are sent between the
// system prompt and the final user message.
type ChatRequest struct {
	System      string
	History     []Message
	User        string
	MaxTokens   int
	Temperature float32
	// JSON asks the model for a JSON object response
	JSON bool
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
	maxRetries     int
	retryDelay     time.Duration
	timeout        time.Duration
	limiter        *rate.Limiter
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oaConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oaConfig.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(oaConfig),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
		timeout:        timeout,
		limiter:        rate.NewLimiter(limit, 1),
	}, nil
}

// EmbeddingModel returns the model used for embeddings
func (c *OpenAIClient) EmbeddingModel() string {
	return c.embeddingModel
}

// GenerateEmbedding returns the embedding for text as float64 values
func (c *OpenAIClient) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	var embedding []float64
	err := c.do(ctx, func(ctx context.Context) error {
		resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: openai.EmbeddingModel(c.embeddingModel),
		})
		if err != nil {
			return classify(err)
		}
		if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
			return fmt.Errorf("no embeddings returned")
		}

		// Convert []float32 to []float64
		embedding32 := resp.Data[0].Embedding
		embedding = make([]float64, len(embedding32))
		for i, v := range embedding32 {
			embedding[i] = float64(v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return embedding, nil
}

// Complete runs a chat completion and returns the trimmed response text
func (c *OpenAIClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, m := range req.History {
		role := openai.ChatMessageRoleUser
		if m.Role == openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.User,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       c.chatModel,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	var content string
	err := c.do(ctx, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}
		content = strings.TrimSpace(resp.Choices[0].Message.Content)
		if content == "" {
			return fmt.Errorf("empty completion returned")
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	return content, nil
}

// do runs fn under the rate limiter with a per-attempt timeout and retries
func (c *OpenAIClient) do(ctx context.Context, fn func(ctx context.Context) error) error {
	return util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		return fn(attemptCtx)
	})
}

// classify marks client errors that will not succeed on retry
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && isPermanentStatus(apiErr.HTTPStatusCode) {
		return fmt.Errorf("%w: %v", util.ErrPermanent, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && isPermanentStatus(reqErr.HTTPStatusCode) {
		return fmt.Errorf("%w: %v", util.ErrPermanent, err)
	}
	return err
}

func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout
}
