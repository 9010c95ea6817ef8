package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// APIError is a failure reported by the explore service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("explore service error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the explore service.
type Client struct {
	exploreURL *url.URL
	speechURL  *url.URL
	apiKey     string
	httpClient *http.Client
}

type ClientConfig struct {
	// BaseURL is where the explore service is mounted. Phrases are posted to
	// BaseURL itself and speech is fetched from BaseURL/tts.
	BaseURL    *url.URL
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == nil {
		panic("explore service url is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		exploreURL: cfg.BaseURL,
		speechURL:  cfg.BaseURL.JoinPath("tts"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

type exploreRequest struct {
	Phrase string `json:"phrase"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Explore asks the service to explain phrase. A body carrying an "error"
// field fails even with a 2xx status. The asked phrase fills in when the
// result does not name one.
func (c *Client) Explore(ctx context.Context, phrase string) (ExplorationResult, error) {
	payload, err := json.Marshal(exploreRequest{Phrase: phrase})
	if err != nil {
		return ExplorationResult{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.exploreURL.String(), bytes.NewReader(payload))
	if err != nil {
		return ExplorationResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ExplorationResult{}, fmt.Errorf("explore request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ExplorationResult{}, fmt.Errorf("read response: %w", err)
	}

	if err := checkResponse(resp.StatusCode, body); err != nil {
		return ExplorationResult{}, err
	}

	res, err := decodeResult(body)
	if err != nil {
		return ExplorationResult{}, fmt.Errorf("decode result: %w", err)
	}
	if res.Phrase == "" {
		res.Phrase = phrase
	}

	return res, nil
}

// Speech fetches MP3 audio for text.
func (c *Client) Speech(ctx context.Context, text, lang string, rate float64) ([]byte, error) {
	u := *c.speechURL
	q := u.Query()
	q.Set("text", text)
	if lang != "" {
		q.Set("lang", lang)
	}
	if rate > 0 {
		q.Set("rate", strconv.FormatFloat(rate, 'f', -1, 64))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError(resp.StatusCode, body)
	}

	return body, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)
}

func checkResponse(status int, body []byte) error {
	if status < 200 || status > 299 {
		return apiError(status, body)
	}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return &APIError{StatusCode: status, Message: eb.Error}
	}

	return nil
}

func apiError(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return &APIError{StatusCode: status, Message: eb.Error}
	}

	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}
