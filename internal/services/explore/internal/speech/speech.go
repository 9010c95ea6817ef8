package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
)

const (
	DefaultLang = "en-US"
	DefaultRate = 0.9
)

var (
	ErrNotConfigured = errors.New("Speech is not configured")
	ErrTextRequired  = errors.New("Text is required")
)

type Request struct {
	Text string
	Lang string
	Rate float64
}

// Key identifies the audio produced for r.
func (r Request) Key() string {
	h := sha256.Sum256([]byte(r.Lang + ":" + strconv.FormatFloat(r.Rate, 'f', -1, 64) + ":" + r.Text))
	return hex.EncodeToString(h[:])
}

type synthesizer interface {
	Configured() bool
	Synthesize(ctx context.Context, r Request) ([]byte, error)
}

type audioCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, audio []byte) error
}

// SpeechService synthesizes sentences, consulting an optional cache first.
type SpeechService struct {
	synth synthesizer
	cache audioCache
}

type SpeechServiceOption func(*SpeechService) *SpeechService

func WithSynthesizer(s synthesizer) SpeechServiceOption {
	return func(srv *SpeechService) *SpeechService {
		srv.synth = s
		return srv
	}
}

func WithCache(c audioCache) SpeechServiceOption {
	return func(srv *SpeechService) *SpeechService {
		srv.cache = c
		return srv
	}
}

func NewSpeechService(opts ...SpeechServiceOption) *SpeechService {
	s := &SpeechService{}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.synth == nil {
		panic("synthesizer is required")
	}

	return s
}

// Speak returns MP3 audio for r. Empty Lang and zero Rate take the defaults.
func (s *SpeechService) Speak(ctx context.Context, r Request) ([]byte, error) {
	if !s.synth.Configured() {
		return nil, serr.NewServiceError(ErrNotConfigured, http.StatusServiceUnavailable, ErrNotConfigured.Error())
	}

	if r.Text == "" {
		return nil, serr.NewServiceError(ErrTextRequired, http.StatusBadRequest, ErrTextRequired.Error())
	}
	if r.Lang == "" {
		r.Lang = DefaultLang
	}
	if r.Rate == 0 {
		r.Rate = DefaultRate
	}

	key := r.Key()
	if s.cache != nil {
		audio, found, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("audio cache lookup failed", "error", err, "key", key)
		}
		if found {
			return audio, nil
		}
	}

	audio, err := s.synth.Synthesize(ctx, r)
	if err != nil {
		se := serr.NewServiceError(fmt.Errorf("synthesize: %w", err), http.StatusBadGateway, "Failed to synthesize speech")
		se.Env["lang"] = r.Lang
		return nil, se
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, audio); err != nil {
			slog.Warn("audio cache store failed", "error", err, "key", key)
		}
	}

	return audio, nil
}
