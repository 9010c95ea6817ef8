package config

import (
	"net/url"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/env"
)

type Config struct {
	HTTP     httpConfig
	Upstream upstreamConfig
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type upstreamConfig struct {
	Explore      *url.URL
	Lessons      *url.URL
	ProbeTimeout time.Duration
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8000"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 5*time.Minute),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upstream: upstreamConfig{
			Explore:      env.URL("EXPLORE_SERVICE_URL", &url.URL{Scheme: "http", Host: "localhost:8080"}),
			Lessons:      env.URL("LESSONS_SERVICE_URL", &url.URL{Scheme: "http", Host: "localhost:8081"}),
			ProbeTimeout: env.Duration("UPSTREAM_PROBE_TIMEOUT", 2*time.Second),
		},
	}
}
