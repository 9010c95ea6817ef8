package config_test

import (
	"testing"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("HTTP_LISTEN_ADDR", ":9090")
	t.Setenv("HTTP_IDLE_TIMEOUT", "70s")
	t.Setenv("HTTP_READ_TIMEOUT", "40s")
	t.Setenv("HTTP_WRITE_TIMEOUT", "50s")
	t.Setenv("HTTP_SHUTDOWN_TIMEOUT", "15s")
	t.Setenv("LOVABLE_API_KEY", "lovable-key")
	t.Setenv("EXPLORE_AI_BASE_URL", "http://localhost:4000/v1")
	t.Setenv("EXPLORE_AI_MODEL", "google/gemini-2.5-pro")
	t.Setenv("GOOGLE_TTS_API_KEY", "tts-key")
	t.Setenv("GOOGLE_TTS_ENDPOINT", "http://localhost:4001/synth")
	t.Setenv("GOOGLE_TTS_TIMEOUT", "3s")
	t.Setenv("TTS_CACHE_ENABLED", "true")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_PASSWORD", "pw")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("TTS_CACHE_TTL", "1h")
	t.Setenv("CORS_ALLOW_ORIGIN", "https://app.example.com")
	t.Setenv("CORS_ALLOW_HEADERS", "authorization,content-type")

	cfg := config.FromEnv()

	assert.Equal(t, ":9090", cfg.HTTP.ListenAddr)
	assert.Equal(t, 70*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 40*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 50*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "lovable-key", cfg.AI.APIKey)
	assert.Equal(t, "http://localhost:4000/v1", cfg.AI.BaseURL)
	assert.Equal(t, "google/gemini-2.5-pro", cfg.AI.Model)
	assert.Equal(t, "tts-key", cfg.Speech.APIKey)
	assert.Equal(t, "http://localhost:4001/synth", cfg.Speech.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Speech.Timeout)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis", cfg.Redis.Host)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, "pw", cfg.Redis.Password)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "https://app.example.com", cfg.CORS.AllowOrigin)
	assert.Equal(t, []string{"authorization", "content-type"}, cfg.CORS.AllowHeaders)
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("LOVABLE_API_KEY", "")
	t.Setenv("GOOGLE_TTS_API_KEY", "")

	cfg := config.FromEnv()

	assert.Equal(t, ":8080", cfg.HTTP.ListenAddr)
	assert.Equal(t, 60*time.Second, cfg.HTTP.IdleTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 90*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Empty(t, cfg.AI.APIKey)
	assert.Equal(t, "https://ai.gateway.lovable.dev/v1", cfg.AI.BaseURL)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.AI.Model)
	assert.Empty(t, cfg.Speech.APIKey)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "*", cfg.CORS.AllowOrigin)
	assert.Equal(t, []string{"authorization", "x-client-info", "apikey", "content-type"}, cfg.CORS.AllowHeaders)
}
