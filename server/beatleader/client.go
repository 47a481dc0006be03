package beatleader

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

func (c *Client) GetPlayer(ctx context.Context, idOrName string) (*Profile, error) {
	var rs playerResp
	if err := platform.GetJSON(ctx, c.httpClient, c.baseURL+"/player/"+url.PathEscape(idOrName), &rs); err != nil {
		return nil, fmt.Errorf("failed to fetch beatleader player %q: %w", idOrName, err)
	}
	return newProfile(rs), nil
}
