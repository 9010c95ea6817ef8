package speech

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleSynthesize(t *testing.T) {
	var got synthesizeRequest
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("X-Goog-Api-Key")
		assert.Empty(t, r.URL.RawQuery)
		assert.Equal(t, "/v1/text:synthesize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(synthesizeResponse{
			AudioContent: base64.StdEncoding.EncodeToString([]byte("mp3-bytes")),
		})
	}))
	defer srv.Close()

	g := NewGoogleSynthesizer(GoogleConfig{
		Endpoint: srv.URL + "/v1/text:synthesize",
		APIKey:   "tts-key",
	})
	require.True(t, g.Configured())

	audio, err := g.Synthesize(context.Background(), Request{Text: "Hello there", Lang: "en-US", Rate: 0.9})
	require.NoError(t, err)

	assert.Equal(t, []byte("mp3-bytes"), audio)
	assert.Equal(t, "tts-key", key)
	assert.Equal(t, "Hello there", got.Input.Text)
	assert.Equal(t, "en-US", got.Voice.LanguageCode)
	assert.Equal(t, "MP3", got.AudioConfig.AudioEncoding)
	assert.Equal(t, 0.9, got.AudioConfig.SpeakingRate)
}

func TestGoogleSynthesize_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	g := NewGoogleSynthesizer(GoogleConfig{Endpoint: srv.URL, APIKey: "bad"})
	_, err := g.Synthesize(context.Background(), Request{Text: "Hello", Lang: "en-US", Rate: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGoogleSynthesize_BadAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"audioContent":"!!not-base64!!"}`))
	}))
	defer srv.Close()

	g := NewGoogleSynthesizer(GoogleConfig{Endpoint: srv.URL, APIKey: "key"})
	_, err := g.Synthesize(context.Background(), Request{Text: "Hello", Lang: "en-US", Rate: 1})
	assert.ErrorContains(t, err, "decode audio")
}

func TestGoogleConfigured(t *testing.T) {
	g := NewGoogleSynthesizer(GoogleConfig{})
	assert.False(t, g.Configured())
	assert.Equal(t, DefaultGoogleEndpoint, g.endpoint)
}

func TestGoogleSynthesize_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/v1/text:synthesize"
	srv.Close()

	g := NewGoogleSynthesizer(GoogleConfig{
		Endpoint: endpoint,
		APIKey:   "secret-key-123",
	})

	_, err := g.Synthesize(context.Background(), Request{Text: "Hello", Lang: "en-US", Rate: 0.9})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key-123")
}
