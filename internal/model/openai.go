package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Defaults for the OpenAI backend.
const (
	DefaultModel       = "gpt-4o"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 4000
)

// OpenAIConfig configures an OpenAIChat.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // optional, for compatible gateways
	Model       string
	Temperature float64
	MaxTokens   int
	MaxRetries  int // -1 disables retries; 0 keeps the client default
}

// OpenAIChat implements Chat with the OpenAI chat-completions API.
type OpenAIChat struct {
	client      openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// Compile-time interface check.
var _ Chat = (*OpenAIChat)(nil)

// NewOpenAIChat creates a client. Zero fields fall back to defaults.
func NewOpenAIChat(cfg OpenAIConfig) (*OpenAIChat, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	switch {
	case cfg.MaxRetries < 0:
		opts = append(opts, option.WithMaxRetries(0))
	case cfg.MaxRetries > 0:
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}

	c := &OpenAIChat{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.temperature == 0 {
		c.temperature = DefaultTemperature
	}
	if c.maxTokens == 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c, nil
}

// Model returns the model name requests use.
func (c *OpenAIChat) Model() string {
	return c.model
}

// Chat sends one system and one user message and returns the reply text.
func (c *OpenAIChat) Chat(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(c.temperature),
		MaxCompletionTokens: openai.Int(int64(c.maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		return "", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content returned", ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
