package audio

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/f3rmion/palavra/internal/palavra"
)

// Speaker synthesizes text into a base64 PCM payload.
type Speaker interface {
	Speak(ctx context.Context, text string) (palavra.Optional[string], error)
}

// Player allows a single playback at a time.
type Player struct {
	out Output
	log *slog.Logger

	mu      sync.Mutex
	playing bool
}

// NewPlayer creates a Player on out.
func NewPlayer(out Output, log *slog.Logger) *Player {
	if log == nil {
		log = slog.Default()
	}
	return &Player{out: out, log: log}
}

// Playing reports whether a playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Play plays b to completion. It returns palavra.ErrBusy while another
// playback is running.
func (p *Player) Play(ctx context.Context, b Buffer) error {
	if !p.acquire() {
		return palavra.ErrBusy
	}
	defer p.release()
	return p.out.Play(ctx, b)
}

// Speak synthesizes text and plays it. The player is held from the request
// until playback ends. An absent payload is logged and not an error.
func (p *Player) Speak(ctx context.Context, s Speaker, text string) error {
	if !p.acquire() {
		return palavra.ErrBusy
	}
	defer p.release()

	payload, err := s.Speak(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesizing speech: %w", err)
	}
	b64, ok := payload.Get()
	if !ok {
		p.log.Warn("speech returned no audio", slog.String("text", text))
		return nil
	}

	buf, err := DecodePCM(b64)
	if err != nil {
		return err
	}
	if err := p.out.Play(ctx, buf); err != nil {
		return fmt.Errorf("playing audio: %w", err)
	}
	return nil
}

func (p *Player) acquire() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return false
	}
	p.playing = true
	return true
}

func (p *Player) release() {
	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
}
