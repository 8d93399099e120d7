package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gpt-4o-mini"

	defaultMaxTokens = 2000
	defaultTimeout   = 30 * time.Second
)

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("llm: api key not configured")

// ErrEmptyResponse is returned when the provider answers without a choice.
var ErrEmptyResponse = errors.New("llm: empty response")

// Config configures the client. BaseURL lets the client talk to any
// OpenAI-compatible endpoint (Groq, Ollama, a local proxy).
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client is a thin wrapper over the OpenAI chat completion API that asks for
// JSON answers and decodes them into typed results.
type Client struct {
	api         *openai.Client
	model       string
	temperature float32
	maxTokens   int
	configured  bool
}

// NewClient constructs a client. A client without an API key is valid but
// every call returns ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		configured:  cfg.APIKey != "",
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c != nil && c.configured
}

// Model returns the model name sent with each request.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a system and user prompt and returns the raw answer.
func (c *Client) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	log.Debug().
		Str("model", c.model).
		Int("tokens", resp.Usage.TotalTokens).
		Dur("duration", time.Since(start)).
		Msg("LLM completion finished")

	return resp.Choices[0].Message.Content, nil
}

// completeJSON asks for a JSON object and decodes it into out.
func (c *Client) completeJSON(ctx context.Context, prompt string, out any) error {
	raw, err := c.Complete(ctx, jsonSystemPrompt, prompt)
	if err != nil {
		return err
	}

	log.Debug().Str("raw_response", truncate(raw, 500)).Msg("Raw LLM response")

	if err := decodeJSON(raw, out); err != nil {
		log.Warn().Str("raw_content", truncate(raw, 500)).Err(err).Msg("Failed to decode LLM response")
		return err
	}
	return nil
}
