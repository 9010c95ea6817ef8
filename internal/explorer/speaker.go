package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	SpeechLang = "en-US"
	SpeechRate = 0.9
)

type speechFetcher interface {
	Speech(ctx context.Context, text, lang string, rate float64) ([]byte, error)
}

// Player outputs MP3 audio. Play must return once ctx is cancelled.
type Player interface {
	Play(ctx context.Context, audio []byte) error
}

// Speaker reads sentences aloud, one at a time.
type Speaker struct {
	fetcher speechFetcher
	player  Player

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSpeaker(fetcher speechFetcher, player Player) *Speaker {
	if fetcher == nil {
		panic("speech fetcher is required")
	}
	if player == nil {
		panic("player is required")
	}

	return &Speaker{
		fetcher: fetcher,
		player:  player,
	}
}

// Speak cancels the utterance in progress, if any, and plays text. It returns
// context.Canceled when a later call interrupts it.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	defer s.release(seq, cancel)

	audio, err := s.fetcher.Speech(ctx, text, SpeechLang, SpeechRate)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("fetch speech: %w", err)
	}

	if err := s.player.Play(ctx, audio); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return context.Canceled
		}
		return fmt.Errorf("play speech: %w", err)
	}

	return nil
}

// Stop cancels the utterance in progress.
func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Speaker) release(seq uint64, cancel context.CancelFunc) {
	cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == seq {
		s.cancel = nil
	}
}
