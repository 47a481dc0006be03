package quaver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
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

// GetUser fetches a player by id or username. A response without a user
// payload is platform.ErrNotFound.
func (c *Client) GetUser(ctx context.Context, idOrName string) (*Profile, error) {
	var rs userResp
	if err := platform.GetJSON(ctx, c.httpClient, c.baseURL+"/v2/user/"+url.PathEscape(idOrName), &rs); err != nil {
		return nil, fmt.Errorf("failed to fetch quaver user %q: %w", idOrName, err)
	}
	if rs.User == nil {
		return nil, fmt.Errorf("quaver user %q: %w", idOrName, platform.ErrNotFound)
	}

	u := rs.User
	return &Profile{
		ID:        strconv.FormatInt(u.ID, 10),
		Username:  u.Username,
		Country:   u.Country,
		AvatarURL: u.AvatarURL,
		Modes: []ModeStats{
			newModeStats(Mode4K, u.StatsKeys4),
			newModeStats(Mode7K, u.StatsKeys7),
		},
	}, nil
}
