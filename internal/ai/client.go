package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	applog "formulary/internal/log"
)

const (
	defaultModel       = "gpt-4.1-mini"
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultTemperature = 0.2
	defaultTimeout     = 90 * time.Second
)

// Config describes how the OpenAI client should be initialised.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
	HTTPClient  *http.Client
}

// Client offers a thin wrapper around an OpenAI-compatible chat completions API.
type Client struct {
	client      *openai.Client
	model       string
	temperature float64
}

// NewClient builds a Client for the configured endpoint.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("ai: api key must not be empty")
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	temp := cfg.Temperature
	if temp <= 0 {
		temp = defaultTemperature
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
		}
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	clientConfig.HTTPClient = httpClient

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: temp,
	}, nil
}

// Model returns the model used for completions.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("ai: model returned no choices")
	}

	applog.Debug(ctx, "chat completion finished",
		"model", c.model,
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens,
		"elapsed", time.Since(start).String(),
	)

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.Trim(content, "`")
	return strings.TrimSpace(content), nil
}
