package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/cirno-club/clubsite/internal/xotel"
	"github.com/cirno-club/clubsite/internal/xtime"
	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/deezer"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/quaver"
	"github.com/cirno-club/clubsite/server/zeno"
)

const EnvPrefix = "CLUBSITE_"

// LoadConfig decodes the TOML file at cfgPath over the defaults and then
// applies CLUBSITE_ prefixed environment variables. A missing file is only
// an error when cfgPath was given explicitly.
func LoadConfig(cfgPath string, required bool) (Config, error) {
	cfg := defaultConfig()

	file, err := os.Open(cfgPath)
	if err != nil && (required || !errors.Is(err, os.ErrNotExist)) {
		return Config{}, fmt.Errorf("failed to open config file: %w", err)
	}
	if err == nil {
		defer func() {
			_ = file.Close()
		}()
		if _, err = toml.NewDecoder(file).Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err = env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:     slog.LevelInfo,
			Format:    LogFormatText,
			AddSource: false,
		},
		Server: ServerConfig{
			Addr:          ":8085",
			DiscordInvite: "https://discord.gg/6VeVAHaXfN",
		},
		Osu: osu.Config{
			BaseURL:   "https://osu-proxy.crimsoncloudszerotwo.workers.dev",
			CacheSize: 256,
		},
		Quaver: quaver.Config{
			BaseURL: "https://api.quavergame.com",
		},
		BeatLeader: beatleader.Config{
			BaseURL: "https://api.beatleader.xyz",
		},
		Lanyard: lanyard.Config{
			BaseURL: "https://api.lanyard.rest",
		},
		Deezer: deezer.Config{
			BaseURL: "https://api.deezer.com",
		},
		Zeno: zeno.Config{
			StreamURL:   "https://stream.zeno.fm/em1ua1fsqvcvv",
			MetadataURL: "https://api.zeno.fm/mounts/metadata/subscribe/em1ua1fsqvcvv",
			RetryDelay:  xtime.Duration(3 * time.Second),
		},
		Otel: xotel.Config{
			Endpoint: "http://localhost:4318",
		},
	}
}

type Config struct {
	Dev        bool              `toml:"dev" env:"DEV"`
	Log        LogConfig         `toml:"log" envPrefix:"LOG_"`
	Server     ServerConfig      `toml:"server" envPrefix:"SERVER_"`
	Members    MembersConfig     `toml:"members" envPrefix:"MEMBERS_"`
	Osu        osu.Config        `toml:"osu" envPrefix:"OSU_"`
	Quaver     quaver.Config     `toml:"quaver" envPrefix:"QUAVER_"`
	BeatLeader beatleader.Config `toml:"beatleader" envPrefix:"BEATLEADER_"`
	Lanyard    lanyard.Config    `toml:"lanyard" envPrefix:"LANYARD_"`
	Deezer     deezer.Config     `toml:"deezer" envPrefix:"DEEZER_"`
	Zeno       zeno.Config       `toml:"zeno" envPrefix:"ZENO_"`
	Otel       xotel.Config      `toml:"otel" envPrefix:"OTEL_"`
}

func (c Config) String() string {
	return fmt.Sprintf("Dev: %t\nLog: %s\nServer: %s\nMembers: %s\nOsu: %s\nQuaver: %s\nBeatLeader: %s\nLanyard: %s\nDeezer: %s\nZeno: %s\nOtel: %s",
		c.Dev,
		c.Log,
		c.Server,
		c.Members,
		c.Osu,
		c.Quaver,
		c.BeatLeader,
		c.Lanyard,
		c.Deezer,
		c.Zeno,
		c.Otel,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     slog.Level `toml:"level" env:"LEVEL"`
	Format    LogFormat  `toml:"format" env:"FORMAT"`
	AddSource bool       `toml:"add_source" env:"ADD_SOURCE"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t",
		c.Level,
		c.Format,
		c.AddSource,
	)
}

type ServerConfig struct {
	Addr          string `toml:"addr" env:"ADDR"`
	DiscordInvite string `toml:"discord_invite" env:"DISCORD_INVITE"`
}

func (c ServerConfig) String() string {
	return fmt.Sprintf("\n Address: %s\n DiscordInvite: %s",
		c.Addr,
		c.DiscordInvite,
	)
}

// MembersConfig points at a member manifest. The embedded one is used when
// Path is empty.
type MembersConfig struct {
	Path string `toml:"path" env:"PATH"`
}

func (c MembersConfig) String() string {
	return fmt.Sprintf("\n Path: %s",
		c.Path,
	)
}
