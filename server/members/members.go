package members

import (
	"fmt"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"

	"github.com/cirno-club/clubsite/server/osu"
)

type Game string

const (
	GameOsu        Game = "osu"
	GameQuaver     Game = "quaver"
	GameBeatLeader Game = "beatleader"
)

// Games are the platforms the directory can be filtered by.
var Games = []Game{GameOsu, GameQuaver, GameBeatLeader}

func (g Game) Valid() bool {
	return slices.Contains(Games, g)
}

func (g Game) Label() string {
	switch g {
	case GameOsu:
		return "osu!"
	case GameQuaver:
		return "Quaver"
	case GameBeatLeader:
		return "BeatLeader"
	}
	return string(g)
}

type Member struct {
	ID             string `toml:"id"`
	Username       string `toml:"username"`
	Title          string `toml:"title"`
	CountryFlag    string `toml:"country_flag"`
	ProfilePicture string `toml:"profile_picture"`
	Games          Links  `toml:"games"`
}

func (m Member) URL() string {
	return "/members/" + m.ID
}

// HasGame reports whether m has an account linked on g.
func (m Member) HasGame(g Game) bool {
	switch g {
	case GameOsu:
		return len(m.Games.Osu) > 0
	case GameQuaver:
		return m.Games.Quaver != ""
	case GameBeatLeader:
		return m.Games.BeatLeader != ""
	}
	return false
}

func (m Member) HasLinkedAccounts() bool {
	return len(m.Games.Osu) > 0 || m.Games.Quaver != "" || m.Games.BeatLeader != "" || m.Games.Discord != ""
}

// Links are the member's accounts per platform. Every field is optional.
type Links struct {
	Osu        []OsuAccount `toml:"osu"`
	Quaver     string       `toml:"quaver"`
	BeatLeader string       `toml:"beatleader"`
	Discord    string       `toml:"discord"`
}

type OsuAccount struct {
	ID       int  `toml:"id"`
	Standard bool `toml:"standard"`
	Taiko    bool `toml:"taiko"`
	Mania    bool `toml:"mania"`
	Catch    bool `toml:"catch"`
}

// Modes are the modes whose statistics should be shown, in display order.
func (a OsuAccount) Modes() []osu.Mode {
	var modes []osu.Mode
	if a.Standard {
		modes = append(modes, osu.ModeOsu)
	}
	if a.Taiko {
		modes = append(modes, osu.ModeTaiko)
	}
	if a.Mania {
		modes = append(modes, osu.ModeMania)
	}
	if a.Catch {
		modes = append(modes, osu.ModeCatch)
	}
	return modes
}

func (m Member) validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return fmt.Errorf("member %q has no id", m.Username)
	}
	if strings.ContainsAny(m.ID, "/?#") {
		return fmt.Errorf("member id %q contains reserved characters", m.ID)
	}
	for _, account := range m.Games.Osu {
		if account.ID <= 0 {
			return fmt.Errorf("member %q has an invalid osu! account id %d", m.ID, account.ID)
		}
	}
	if id := m.Games.Discord; id != "" {
		if _, err := snowflake.Parse(id); err != nil {
			return fmt.Errorf("member %q has an invalid discord id %q: %w", m.ID, id, err)
		}
	}
	return nil
}
