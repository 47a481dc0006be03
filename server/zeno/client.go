package zeno

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cirno-club/clubsite/internal/xtime"
	"github.com/cirno-club/clubsite/server/platform"
)

var ErrStreamClosed = errors.New("event stream closed")

type Config struct {
	StreamURL   string         `toml:"stream_url" env:"STREAM_URL"`
	MetadataURL string         `toml:"metadata_url" env:"METADATA_URL"`
	RetryDelay  xtime.Duration `toml:"retry_delay" env:"RETRY_DELAY"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n StreamURL: %s\n MetadataURL: %s\n RetryDelay: %s",
		c.StreamURL,
		c.MetadataURL,
		c.RetryDelay,
	)
}

func New(cfg Config, httpClient *http.Client) *Client {
	return &Client{
		httpClient:  httpClient,
		streamURL:   cfg.StreamURL,
		metadataURL: cfg.MetadataURL,
	}
}

type Client struct {
	httpClient  *http.Client
	streamURL   string
	metadataURL string
}

// Subscribe opens the now-playing event stream and calls handle for every
// track until ctx is done or the upstream closes the stream. The returned
// duration is the reconnect delay the upstream asked for, zero if it did not.
func (c *Client) Subscribe(ctx context.Context, handle func(Track)) (time.Duration, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.metadataURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	rq.Header.Set("Accept", "text/event-stream")
	rq.Header.Set("Cache-Control", "no-cache")

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return 0, fmt.Errorf("failed to subscribe to metadata: %w", err)
	}
	defer rs.Body.Close()

	if rs.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(rs.Body)
		return 0, &platform.StatusError{StatusCode: rs.StatusCode, Body: string(data)}
	}

	var retry time.Duration
	err = readEvents(rs.Body, &retry, func(e event) {
		if e.Name != "" && e.Name != "message" {
			return
		}
		handle(ParseMetadata(e.Data))
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return retry, ctxErr
	}
	if err != nil {
		return retry, fmt.Errorf("failed to read metadata stream: %w", err)
	}
	return retry, ErrStreamClosed
}

// Stream is an open connection to the audio stream.
type Stream struct {
	io.ReadCloser
	ContentType string
}

func (c *Client) OpenStream(ctx context.Context) (*Stream, error) {
	rq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	rs, err := c.httpClient.Do(rq)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if rs.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(rs.Body, 1024))
		_ = rs.Body.Close()
		return nil, &platform.StatusError{StatusCode: rs.StatusCode, Body: string(data)}
	}

	contentType := rs.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &Stream{
		ReadCloser:  rs.Body,
		ContentType: contentType,
	}, nil
}
