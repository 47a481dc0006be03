package osu

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cirno-club/clubsite/server/platform"
)

type Config struct {
	BaseURL   string `toml:"base_url" env:"BASE_URL"`
	CacheSize int    `toml:"cache_size" env:"CACHE_SIZE"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n BaseURL: %s\n CacheSize: %d",
		c.BaseURL,
		c.CacheSize,
	)
}

func New(cfg Config, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

// Client talks to the osu! proxy, which forwards /users/{id}/{mode} to the
// osu! API with its own credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// GetUser fetches the profile of account id in mode. A non-success response
// is returned as a *platform.StatusError carrying the status code and body.
func (c *Client) GetUser(ctx context.Context, id int, mode Mode) (*User, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("invalid osu! mode: %q", mode)
	}

	var rs userResp
	if err := platform.GetJSON(ctx, c.httpClient, fmt.Sprintf("%s/users/%d/%s", c.baseURL, id, mode), &rs); err != nil {
		return nil, fmt.Errorf("failed to fetch osu! user %d (%s): %w", id, mode, err)
	}

	return newUser(rs, mode), nil
}
