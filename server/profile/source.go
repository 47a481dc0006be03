package profile

import (
	"context"

	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/osu"
)

// Source is one tier of the avatar priority list.
type Source interface {
	Name() string
	Linked(m members.Member) bool
	Identity(ctx context.Context, lookup Lookup, m members.Member) (Identity, error)
}

// Sources is the avatar priority list, highest first. The placeholder is not
// part of it; it is used when every source fails.
var Sources = []Source{
	discordSource{},
	osuSource{},
	quaverSource{},
	beatLeaderSource{},
}

type discordSource struct{}

func (discordSource) Name() string { return SourceDiscord }

func (discordSource) Linked(m members.Member) bool {
	return m.Games.Discord != ""
}

func (s discordSource) Identity(ctx context.Context, lookup Lookup, m members.Member) (Identity, error) {
	presence, err := lookup.Presence(ctx, m.Games.Discord)
	if err != nil {
		return Identity{}, err
	}
	return Identity{
		AvatarURL: presence.User.AvatarURL(),
		Status:    StatusFromDiscord(presence.Status),
		Source:    s.Name(),
	}, nil
}

// osuSource uses the standard mode profile of the first linked account.
type osuSource struct{}

func (osuSource) Name() string { return SourceOsu }

func (osuSource) Linked(m members.Member) bool {
	return len(m.Games.Osu) > 0
}

func (s osuSource) Identity(ctx context.Context, lookup Lookup, m members.Member) (Identity, error) {
	user, err := lookup.OsuUser(ctx, m.Games.Osu[0].ID, osu.ModeOsu)
	if err != nil {
		return Identity{}, err
	}
	return withAvatar(user.AvatarURL, s.Name())
}

type quaverSource struct{}

func (quaverSource) Name() string { return SourceQuaver }

func (quaverSource) Linked(m members.Member) bool {
	return m.Games.Quaver != ""
}

func (s quaverSource) Identity(ctx context.Context, lookup Lookup, m members.Member) (Identity, error) {
	p, err := lookup.QuaverUser(ctx, m.Games.Quaver)
	if err != nil {
		return Identity{}, err
	}
	return withAvatar(p.AvatarURL, s.Name())
}

type beatLeaderSource struct{}

func (beatLeaderSource) Name() string { return SourceBeatLeader }

func (beatLeaderSource) Linked(m members.Member) bool {
	return m.Games.BeatLeader != ""
}

func (s beatLeaderSource) Identity(ctx context.Context, lookup Lookup, m members.Member) (Identity, error) {
	p, err := lookup.BeatLeaderPlayer(ctx, m.Games.BeatLeader)
	if err != nil {
		return Identity{}, err
	}
	return withAvatar(p.AvatarURL, s.Name())
}

func withAvatar(avatarURL string, source string) (Identity, error) {
	if avatarURL == "" {
		return Identity{}, ErrNoAvatar
	}
	return Identity{
		AvatarURL: avatarURL,
		Status:    StatusGray,
		Source:    source,
	}, nil
}
