package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/radio"
)

// NowPlaying is the track as shown on the radio page and sent over
// /radio/events.
type NowPlaying struct {
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	CoverURL   string `json:"cover_url"`
	SpotifyURL string `json:"spotify_url"`
	YouTubeURL string `json:"youtube_url"`
}

func newNowPlaying(np radio.NowPlaying) NowPlaying {
	cover := np.CoverURL
	if cover == "" {
		cover = platform.PlaceholderImage
	}
	return NowPlaying{
		Title:      np.Track.Title,
		Artist:     np.Track.Artist,
		Album:      np.Track.Album,
		CoverURL:   cover,
		SpotifyURL: np.Track.SpotifyURL(),
		YouTubeURL: np.Track.YouTubeMusicURL(),
	}
}

type RadioVars struct {
	Page
	Track NowPlaying
}

func (h *handler) RadioPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "radio.gohtml", RadioVars{
		Page:  h.page("Radio", "radio"),
		Track: newNowPlaying(h.Station.Current()),
	})
}

// RadioEvents relays now-playing updates as server-sent "track" events
// until the client leaves or the station closes.
func (h *handler) RadioEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := h.Station.Subscribe()
	defer h.Station.Unsubscribe(id)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		slog.ErrorContext(ctx, "Failed to flush radio events", slog.Any("err", err))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case np, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(newNowPlaying(np))
			if err != nil {
				slog.ErrorContext(ctx, "Failed to encode now playing", slog.Any("err", err))
				return
			}
			if _, err = fmt.Fprintf(w, "event: track\ndata: %s\n\n", data); err != nil {
				return
			}
			if err = rc.Flush(); err != nil {
				return
			}
		}
	}
}

// RadioStream proxies the upstream audio stream. Every listener gets its
// own player, which is paused again when the listener leaves.
func (h *handler) RadioStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	media := radio.NewStreamMedia(h.Radio)
	player := radio.NewPlayer(media)
	if err := player.Play(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to open radio stream", slog.Any("err", err))
		http.Error(w, "Radio stream unavailable", http.StatusBadGateway)
		return
	}
	defer func() {
		_ = player.Pause()
	}()

	stream := media.Stream()
	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", stream.ContentType)
	w.Header().Set("Cache-Control", "no-cache, no-store")

	buf := make([]byte, 16*1024)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			if _, wErr := w.Write(buf[:n]); wErr != nil {
				return
			}
			_ = rc.Flush()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				slog.ErrorContext(ctx, "Failed to read radio stream", slog.Any("err", err))
			}
			return
		}
	}
}
