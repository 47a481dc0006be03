package deezer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cirno-club/clubsite/server/platform"
)

type Config struct {
	BaseURL string `toml:"base_url" env:"BASE_URL"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n BaseURL: %s", c.BaseURL)
}

func New(cfg Config, httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
	}
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

type searchResp struct {
	Data []struct {
		Album struct {
			CoverBig string `json:"cover_big"`
		} `json:"album"`
	} `json:"data"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// SearchCover returns the large album cover of the best match for artist and
// title.
func (c *Client) SearchCover(ctx context.Context, artist string, title string) (string, error) {
	query := strings.TrimSpace(artist + " " + title)
	if query == "" {
		return "", fmt.Errorf("empty cover query: %w", platform.ErrNotFound)
	}

	u := c.baseURL + "/search?" + url.Values{
		"q":     {query},
		"limit": {"1"},
	}.Encode()

	var rs searchResp
	if err := platform.GetJSON(ctx, c.httpClient, u, &rs); err != nil {
		return "", fmt.Errorf("failed to search cover for %q: %w", query, err)
	}
	if rs.Error != nil {
		return "", fmt.Errorf("cover search for %q failed: %s (%d)", query, rs.Error.Message, rs.Error.Code)
	}
	if len(rs.Data) == 0 || rs.Data[0].Album.CoverBig == "" {
		return "", fmt.Errorf("no cover for %q: %w", query, platform.ErrNotFound)
	}
	return rs.Data[0].Album.CoverBig, nil
}
