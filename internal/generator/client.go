package generator

import (
	"alcyxob/workout-buddy/internal/config"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultModel     = "gpt-3.5-turbo"
	defaultMaxTokens = 1500
	defaultTimeout   = 60 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client is a Generator backed by an OpenAI-compatible /chat/completions endpoint.
type Client struct {
	http      *resty.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewClient builds a Client. Requests time out after cfg.Timeout and are
// retried cfg.RetryCount times on network errors, 429 and 5xx.
func NewClient(cfg config.LLMConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(isTransient)

	return &Client{
		http:      cli,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{
			Model:     c.model,
			Messages:  []chatMessage{{Role: "user", Content: prompt}},
			MaxTokens: c.maxTokens,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: http %d", ErrUpstreamStatus, resp.StatusCode())
	}

	var body chatResponse
	if err = json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(body.Choices) == 0 || strings.TrimSpace(body.Choices[0].Message.Content) == "" {
		return "", ErrMalformedResponse
	}
	return body.Choices[0].Message.Content, nil
}

func isTransient(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
}
