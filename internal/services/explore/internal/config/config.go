package config

import (
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/env"
	"github.com/gamma-omg/lexi-explore/internal/pkg/middleware"
)

type Config struct {
	HTTP   httpConfig
	AI     aiConfig
	Speech speechConfig
	Redis  redisConfig
	CORS   corsConfig
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type aiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type speechConfig struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
}

type redisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type corsConfig struct {
	AllowOrigin  string
	AllowHeaders []string
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 90*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		AI: aiConfig{
			APIKey:  env.String("LOVABLE_API_KEY", ""),
			BaseURL: env.String("EXPLORE_AI_BASE_URL", "https://ai.gateway.lovable.dev/v1"),
			Model:   env.String("EXPLORE_AI_MODEL", "google/gemini-2.5-flash"),
		},
		Speech: speechConfig{
			APIKey:   env.String("GOOGLE_TTS_API_KEY", ""),
			Endpoint: env.String("GOOGLE_TTS_ENDPOINT", "https://texttospeech.googleapis.com/v1/text:synthesize"),
			Timeout:  env.Duration("GOOGLE_TTS_TIMEOUT", 10*time.Second),
		},
		Redis: redisConfig{
			Enabled:  env.Bool("TTS_CACHE_ENABLED", false),
			Host:     env.String("REDIS_HOST", "localhost"),
			Port:     env.String("REDIS_PORT", "6379"),
			Password: env.String("REDIS_PASSWORD", ""),
			DB:       env.Int("REDIS_DB", 0),
			TTL:      env.Duration("TTS_CACHE_TTL", 7*24*time.Hour),
		},
		CORS: corsConfig{
			AllowOrigin:  env.String("CORS_ALLOW_ORIGIN", "*"),
			AllowHeaders: env.Strings("CORS_ALLOW_HEADERS", middleware.DefaultAllowedHeaders),
		},
	}
}
