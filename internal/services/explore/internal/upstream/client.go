package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrNotConfigured = errors.New("api key is not configured")
	ErrNoChoices     = errors.New("no choices in completion")
)

// Client issues chat completions against an OpenAI compatible gateway.
type Client struct {
	client *openai.Client
	model  string
	apiKey string
}

type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

func NewClient(cfg Config) *Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	clientConfig.HTTPClient = withErrorLogging(httpClient)

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Configured reports whether the client has credentials to call the gateway.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type CompletionRequest struct {
	System     string
	User       string
	SchemaName string
	Schema     json.Marshaler
}

// Complete returns the content of the first choice. An empty string with a nil
// error means the gateway answered without content.
func (c *Client) Complete(ctx context.Context, r CompletionRequest) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: r.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: r.User,
			},
		},
	}

	if r.Schema != nil {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   r.SchemaName,
				Strict: true,
				Schema: r.Schema,
			},
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}

	slog.Debug("chat completion finished",
		"model", c.model,
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
