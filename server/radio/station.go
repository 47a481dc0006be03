package radio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/zeno"
)

const defaultRetryDelay = 3 * time.Second

type Upstream interface {
	Subscribe(ctx context.Context, handle func(zeno.Track)) (time.Duration, error)
}

type CoverSearcher interface {
	SearchCover(ctx context.Context, artist string, title string) (string, error)
}

// NowPlaying is the current track. Seq grows with every track change.
type NowPlaying struct {
	Track    zeno.Track
	CoverURL string
	Seq      uint64
}

func (n NowPlaying) Known() bool {
	return n.Seq > 0
}

func NewStation(upstream Upstream, covers CoverSearcher, retryDelay time.Duration) *Station {
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}
	return &Station{
		upstream:   upstream,
		covers:     covers,
		retryDelay: retryDelay,
		listeners:  make(map[int]chan NowPlaying),
	}
}

// Station relays now-playing updates to any number of listeners. The
// upstream subscription is open only while at least one listener is
// subscribed.
type Station struct {
	upstream   Upstream
	covers     CoverSearcher
	retryDelay time.Duration

	mu        sync.Mutex
	closed    bool
	nextID    int
	listeners map[int]chan NowPlaying
	current   NowPlaying
	cancel    context.CancelFunc
	done      chan struct{}
}

// Subscribe registers a listener. Its channel holds at most one pending
// update; a slow reader only ever sees the latest one. The current track, if
// known, is delivered right away. A closed station returns a closed channel.
func (s *Station) Subscribe() (int, <-chan NowPlaying) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		ch := make(chan NowPlaying)
		close(ch)
		return -1, ch
	}

	id := s.nextID
	s.nextID++

	ch := make(chan NowPlaying, 1)
	s.listeners[id] = ch
	if s.current.Known() {
		ch <- s.current
	}

	if s.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})
		go s.run(ctx, s.done)
	}

	return id, ch
}

// Unsubscribe removes a listener and closes its channel. The last listener
// leaving closes the upstream subscription.
func (s *Station) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.listeners[id]
	if !ok {
		return
	}
	close(ch)
	delete(s.listeners, id)

	if len(s.listeners) == 0 && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Station) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *Station) Current() NowPlaying {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close closes every listener channel and waits for the upstream
// subscription to end.
func (s *Station) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	for id, ch := range s.listeners {
		close(ch)
		delete(s.listeners, id)
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (s *Station) run(ctx context.Context, done chan struct{}) {
	var covers sync.WaitGroup
	defer close(done)
	defer covers.Wait()

	for {
		retry, err := s.upstream.Subscribe(ctx, func(track zeno.Track) {
			s.update(ctx, &covers, track)
		})
		if ctx.Err() != nil {
			return
		}
		if retry <= 0 {
			retry = s.retryDelay
		}
		slog.WarnContext(ctx, "Radio metadata stream dropped", slog.Any("err", err), slog.Duration("retry", retry))

		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (s *Station) update(ctx context.Context, covers *sync.WaitGroup, track zeno.Track) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ctx.Err() != nil {
		return
	}

	s.current = NowPlaying{
		Track:    track,
		CoverURL: platform.PlaceholderImage,
		Seq:      s.current.Seq + 1,
	}
	s.broadcast()

	seq := s.current.Seq
	covers.Add(1)
	go func() {
		defer covers.Done()
		s.lookupCover(ctx, seq, track)
	}()
}

// lookupCover searches the cover of track. The result is dropped if another
// track started in the meantime.
func (s *Station) lookupCover(ctx context.Context, seq uint64, track zeno.Track) {
	cover, err := s.covers.SearchCover(ctx, track.Artist, track.Title)
	if err != nil {
		if !errors.Is(err, platform.ErrNotFound) {
			slog.WarnContext(ctx, "Failed to look up cover", slog.String("title", track.Title), slog.Any("err", err))
		}
		cover = ""
	}
	if cover == "" {
		cover = platform.PlaceholderImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current.Seq != seq || s.current.CoverURL == cover {
		return
	}
	s.current.CoverURL = cover
	s.broadcast()
}

// broadcast replaces any pending update of every listener with the current
// one. s.mu must be held.
func (s *Station) broadcast() {
	for _, ch := range s.listeners {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s.current:
		default:
		}
	}
}
