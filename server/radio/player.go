package radio

import (
	"context"
	"fmt"
	"sync"

	"github.com/cirno-club/clubsite/server/zeno"
)

type State int

const (
	StateStopped State = iota
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Media is something a Player can start and stop.
type Media interface {
	Start(ctx context.Context) error
	Stop() error
}

func NewPlayer(media Media) *Player {
	return &Player{media: media}
}

// Player switches between stopped and playing. It never retries a failed
// start on its own.
type Player struct {
	mu    sync.Mutex
	media Media
	state State
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Play starts the media. If it fails the player stays stopped and the error
// is returned.
func (p *Player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StatePlaying {
		return nil
	}
	if err := p.media.Start(ctx); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	p.state = StatePlaying
	return nil
}

func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateStopped {
		return nil
	}
	p.state = StateStopped
	if err := p.media.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}
	return nil
}

// Toggle pauses a playing player and plays a stopped one.
func (p *Player) Toggle(ctx context.Context) error {
	if p.State() == StatePlaying {
		return p.Pause()
	}
	return p.Play(ctx)
}

type StreamOpener interface {
	OpenStream(ctx context.Context) (*zeno.Stream, error)
}

func NewStreamMedia(opener StreamOpener) *StreamMedia {
	return &StreamMedia{opener: opener}
}

// StreamMedia is the upstream audio stream. Starting it opens a connection,
// stopping it closes that connection.
type StreamMedia struct {
	opener StreamOpener

	mu     sync.Mutex
	stream *zeno.Stream
}

func (m *StreamMedia) Start(ctx context.Context) error {
	stream, err := m.opener.OpenStream(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stream = stream
	return nil
}

func (m *StreamMedia) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stream == nil {
		return nil
	}
	err := m.stream.Close()
	m.stream = nil
	return err
}

// Stream is the open stream, nil while stopped.
func (m *StreamMedia) Stream() *zeno.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream
}
