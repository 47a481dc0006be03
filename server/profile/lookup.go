package profile

import (
	"context"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/quaver"
)

// Lookup fetches the platform profiles of a member's linked accounts.
type Lookup interface {
	Presence(ctx context.Context, discordID string) (*lanyard.Presence, error)
	OsuUser(ctx context.Context, id int, mode osu.Mode) (*osu.User, error)
	QuaverUser(ctx context.Context, idOrName string) (*quaver.Profile, error)
	BeatLeaderPlayer(ctx context.Context, idOrName string) (*beatleader.Profile, error)
}

type OsuClient interface {
	GetUser(ctx context.Context, id int, mode osu.Mode) (*osu.User, error)
}

type QuaverClient interface {
	GetUser(ctx context.Context, idOrName string) (*quaver.Profile, error)
}

type BeatLeaderClient interface {
	GetPlayer(ctx context.Context, idOrName string) (*beatleader.Profile, error)
}

type LanyardClient interface {
	GetPresence(ctx context.Context, discordID string) (*lanyard.Presence, error)
}

// Clients is the live Lookup. Every call runs in its own span.
type Clients struct {
	Osu        OsuClient
	Quaver     QuaverClient
	BeatLeader BeatLeaderClient
	Lanyard    LanyardClient
}

var tracer = otel.Tracer("github.com/cirno-club/clubsite/server/profile")

func traced[T any](ctx context.Context, name string, id string, fetch func(context.Context) (*T, error)) (*T, error) {
	ctx, span := tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("platform.account_id", id),
	))
	defer span.End()

	v, err := fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return v, nil
}

func (c Clients) Presence(ctx context.Context, discordID string) (*lanyard.Presence, error) {
	if c.Lanyard == nil {
		return nil, platform.ErrNotFound
	}
	return traced(ctx, "lanyard.GetPresence", discordID, func(ctx context.Context) (*lanyard.Presence, error) {
		return c.Lanyard.GetPresence(ctx, discordID)
	})
}

func (c Clients) OsuUser(ctx context.Context, id int, mode osu.Mode) (*osu.User, error) {
	if c.Osu == nil {
		return nil, platform.ErrNotFound
	}
	return traced(ctx, "osu.GetUser", strconv.Itoa(id)+"/"+string(mode), func(ctx context.Context) (*osu.User, error) {
		return c.Osu.GetUser(ctx, id, mode)
	})
}

func (c Clients) QuaverUser(ctx context.Context, idOrName string) (*quaver.Profile, error) {
	if c.Quaver == nil {
		return nil, platform.ErrNotFound
	}
	return traced(ctx, "quaver.GetUser", idOrName, func(ctx context.Context) (*quaver.Profile, error) {
		return c.Quaver.GetUser(ctx, idOrName)
	})
}

func (c Clients) BeatLeaderPlayer(ctx context.Context, idOrName string) (*beatleader.Profile, error) {
	if c.BeatLeader == nil {
		return nil, platform.ErrNotFound
	}
	return traced(ctx, "beatleader.GetPlayer", idOrName, func(ctx context.Context) (*beatleader.Profile, error) {
		return c.BeatLeader.GetPlayer(ctx, idOrName)
	})
}

type result[T any] struct {
	value *T
	err   error
}

func (r result[T]) get() (*T, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.value == nil {
		return nil, platform.ErrNotFound
	}
	return r.value, nil
}

type osuKey struct {
	id   int
	mode osu.Mode
}

// settled is a Lookup over results that were already fetched. Anything that
// was not fetched is reported as not found.
type settled struct {
	presence   result[lanyard.Presence]
	osu        map[osuKey]result[osu.User]
	quaver     result[quaver.Profile]
	beatLeader result[beatleader.Profile]
}

func (s *settled) Presence(context.Context, string) (*lanyard.Presence, error) {
	return s.presence.get()
}

func (s *settled) OsuUser(_ context.Context, id int, mode osu.Mode) (*osu.User, error) {
	r, ok := s.osu[osuKey{id: id, mode: mode}]
	if !ok {
		return nil, fmt.Errorf("osu! user %d (%s) was not fetched: %w", id, mode, platform.ErrNotFound)
	}
	return r.get()
}

func (s *settled) QuaverUser(context.Context, string) (*quaver.Profile, error) {
	return s.quaver.get()
}

func (s *settled) BeatLeaderPlayer(context.Context, string) (*beatleader.Profile, error) {
	return s.beatLeader.get()
}
