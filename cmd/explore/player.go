package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// filePlayer "plays" audio by saving it as numbered MP3 files.
type filePlayer struct {
	dir string

	mu sync.Mutex
	n  int
}

func newFilePlayer(dir string) (*filePlayer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	return &filePlayer{dir: dir}, nil
}

func (p *filePlayer) Play(ctx context.Context, audio []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	p.n++
	name := filepath.Join(p.dir, fmt.Sprintf("sentence-%03d.mp3", p.n))
	p.mu.Unlock()

	if err := os.WriteFile(name, audio, 0o644); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}

	return nil
}
