package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const DefaultGoogleEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

// GoogleSynthesizer calls the Cloud Text-to-Speech REST API with an API key.
type GoogleSynthesizer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

type GoogleConfig struct {
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

func NewGoogleSynthesizer(cfg GoogleConfig) *GoogleSynthesizer {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultGoogleEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleSynthesizer{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}
}

func (g *GoogleSynthesizer) Configured() bool {
	return g.apiKey != ""
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		SpeakingRate  float64 `json:"speakingRate"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize returns MP3 audio for r.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, r Request) ([]byte, error) {
	var body synthesizeRequest
	body.Input.Text = r.Text
	body.Voice.LanguageCode = r.Lang
	body.AudioConfig.AudioEncoding = "MP3"
	body.AudioConfig.SpeakingRate = r.Rate

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts api error %d: %s", resp.StatusCode, string(respBody))
	}

	var result synthesizeResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio: %w", err)
	}

	return audio, nil
}
