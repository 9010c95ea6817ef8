package speech

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	redisHost string
	redisPort string
)

func startRedis(ctx context.Context) (string, string, func()) {
	r := testcontainers.ContainerRequest{
		Image:        "redis:8.4-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: r,
		Started:          true,
	})
	if err != nil {
		panic(err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		panic(err)
	}

	port, err := cont.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}

	closer := func() {
		_ = cont.Terminate(context.Background())
	}

	return host, port.Port(), closer
}

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	host, port, closeRedis := startRedis(ctx)

	redisHost = host
	redisPort = port

	code := m.Run()
	closeRedis()
	cancel()
	os.Exit(code)
}

func newTestCache(t *testing.T, ttl time.Duration) *RedisCache {
	t.Helper()

	c := NewRedisCache(RedisConfig{
		Host: redisHost,
		Port: redisPort,
		TTL:  ttl,
	})
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(context.Background()))
	return c
}

func TestRedisCache(t *testing.T) {
	c := newTestCache(t, 30*time.Second)
	key := Request{Text: "Hello", Lang: "en-US", Rate: 0.9}.Key()

	_, found, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(context.Background(), key, []byte{0xff, 0xfb, 0x90}))

	audio, found, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte{0xff, 0xfb, 0x90}, audio)
}

func TestRedisCache_Expires(t *testing.T) {
	c := newTestCache(t, time.Second)
	key := Request{Text: "Bye", Lang: "en-US", Rate: 0.9}.Key()

	require.NoError(t, c.Set(context.Background(), key, []byte("audio")))
	time.Sleep(2 * time.Second)

	_, found, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSpeak_WithRedisCache(t *testing.T) {
	synth := &mockSynthesizer{
		SynthesizeFunc: func(ctx context.Context, r Request) ([]byte, error) {
			return []byte("audio:" + r.Text), nil
		},
	}
	srv := NewSpeechService(WithSynthesizer(synth), WithCache(newTestCache(t, time.Minute)))

	for range 3 {
		audio, err := srv.Speak(context.Background(), Request{Text: "Cached sentence"})
		require.NoError(t, err)
		assert.Equal(t, []byte("audio:Cached sentence"), audio)
	}
	assert.Equal(t, 1, synth.calls)
}
