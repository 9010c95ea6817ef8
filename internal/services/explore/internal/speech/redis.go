package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tts:"

// RedisCache stores synthesized audio keyed by Request.Key.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisCache{
		rdb: rdb,
		ttl: cfg.TTL,
	}
}

// Get returns the cached audio. A miss is reported as found == false with a nil error.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("get audio from redis: %w", err)
	}

	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, audio []byte) error {
	if err := c.rdb.Set(ctx, keyPrefix+key, audio, c.ttl).Err(); err != nil {
		return fmt.Errorf("store audio in redis: %w", err)
	}

	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
