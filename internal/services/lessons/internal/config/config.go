package config

import (
	"net/url"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/env"
	"github.com/gamma-omg/lexi-explore/internal/pkg/middleware"
)

type Config struct {
	AuthSecret     string
	LessonsMaxKeys int64
	LessonsMaxCost int64
	LessonsTTL     time.Duration
	DB             dbConfig
	HTTP           httpConfig
	Storage        storageConfig
	CORS           corsConfig
}

type dbConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type httpConfig struct {
	ListenAddr      string
	IdleTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type storageConfig struct {
	Root          string
	ServeRoot     *url.URL
	MaxUploadSize int64
}

type corsConfig struct {
	AllowOrigin  string
	AllowHeaders []string
}

func FromEnv() Config {
	return Config{
		AuthSecret:     env.RequireString("AUTH_SECRET"),
		LessonsMaxKeys: env.Int64("LESSONS_CACHE_KEYS", 1000),
		LessonsMaxCost: env.Int64("LESSONS_CACHE_COST", 1000),
		LessonsTTL:     env.Duration("LESSONS_CACHE_TTL", time.Minute),
		DB: dbConfig{
			Host:     env.String("DB_HOST", "localhost"),
			Port:     env.String("DB_PORT", "5432"),
			User:     env.String("DB_USER", "postgres"),
			Password: env.String("DB_PASSWORD", "password"),
			Name:     env.String("DB_NAME", "lessons_service"),
		},
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8081"),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 5*time.Minute),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 5*time.Minute),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Storage: storageConfig{
			Root:          env.String("STORAGE_ROOT", "./storage"),
			ServeRoot:     env.URL("STORAGE_PUBLIC_URL", &url.URL{Scheme: "http", Host: "localhost:8081", Path: "/storage/"}),
			MaxUploadSize: env.Int64("UPLOAD_MAX_SIZE", 500*1024*1024),
		},
		CORS: corsConfig{
			AllowOrigin:  env.String("CORS_ALLOW_ORIGIN", "*"),
			AllowHeaders: env.Strings("CORS_ALLOW_HEADERS", middleware.DefaultAllowedHeaders),
		},
	}
}
