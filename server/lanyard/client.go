package lanyard

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/disgoorg/snowflake/v2"

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

// Client reads presences from a Lanyard relay. Only users the relay
// monitors have a presence.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func (c *Client) GetPresence(ctx context.Context, discordID string) (*Presence, error) {
	id, err := snowflake.Parse(discordID)
	if err != nil {
		return nil, fmt.Errorf("invalid discord id %q: %w", discordID, err)
	}

	var rs presenceResp
	if err = platform.GetJSON(ctx, c.httpClient, fmt.Sprintf("%s/v1/users/%s", c.baseURL, id), &rs); err != nil {
		return nil, fmt.Errorf("failed to fetch presence of %s: %w", id, err)
	}
	if !rs.Success || rs.Data == nil {
		if rs.Error != nil {
			return nil, fmt.Errorf("presence of %s: %s: %w", id, rs.Error.Message, platform.ErrNotFound)
		}
		return nil, fmt.Errorf("presence of %s: %w", id, platform.ErrNotFound)
	}
	return rs.Data, nil
}
