package profile

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cirno-club/clubsite/internal/tsync"
	"github.com/cirno-club/clubsite/internal/xerrors"
	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/quaver"
)

const cardConcurrency = 8

func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{
		lookup:  lookup,
		sources: Sources,
	}
}

// Resolver picks a member's avatar and status from the first source in
// priority order that can provide one.
type Resolver struct {
	lookup  Lookup
	sources []Source
}

type Card struct {
	Member   members.Member
	Identity Identity
}

// Detail is everything shown on a member's page. Platform fields are nil
// when the account is not linked or its lookup failed.
type Detail struct {
	Member     members.Member
	Identity   Identity
	Country    string
	Presence   *lanyard.Presence
	Osu        []*osu.User
	Quaver     *quaver.Profile
	BeatLeader *beatleader.Profile
	// NoData is set when the member has linked accounts but none of them
	// could be fetched.
	NoData bool
}

// Card asks the sources one after another and stops at the first success.
func (r *Resolver) Card(ctx context.Context, m members.Member) Identity {
	return r.resolve(ctx, r.lookup, m, true)
}

// Cards resolves the identity of every member, keeping their order.
func (r *Resolver) Cards(ctx context.Context, ms []members.Member) []Card {
	cards := make([]Card, len(ms))

	eg, ctx := tsync.ErrorGroupWithContext(ctx)
	eg.SetLimit(cardConcurrency)
	for i, m := range ms {
		eg.Go(func() error {
			cards[i] = Card{
				Member:   m,
				Identity: r.Card(ctx, m),
			}
			return nil
		})
	}
	_ = eg.Wait()

	return cards
}

// Detail fetches every linked account at once and only then applies the
// source priority, so which lookup finished first never matters.
func (r *Resolver) Detail(ctx context.Context, m members.Member) Detail {
	s := r.settle(ctx, m)

	d := Detail{
		Member:   m,
		Identity: r.resolve(ctx, s, m, false),
	}
	d.Presence, _ = s.presence.get()
	d.Quaver, _ = s.quaver.get()
	d.BeatLeader, _ = s.beatLeader.get()
	for _, key := range osuWidgetKeys(m) {
		if user, err := s.osu[key].get(); err == nil {
			d.Osu = append(d.Osu, user)
		}
	}

	switch {
	case d.BeatLeader != nil && d.BeatLeader.Country != "":
		d.Country = d.BeatLeader.Country
	case d.Quaver != nil && d.Quaver.Country != "":
		d.Country = d.Quaver.Country
	default:
		d.Country = m.CountryFlag
	}

	d.NoData = m.HasLinkedAccounts() && d.Presence == nil && len(d.Osu) == 0 && d.Quaver == nil && d.BeatLeader == nil
	return d
}

func (r *Resolver) resolve(ctx context.Context, lookup Lookup, m members.Member, logErrors bool) Identity {
	for _, source := range r.sources {
		if !source.Linked(m) {
			continue
		}
		identity, err := source.Identity(ctx, lookup, m)
		if err != nil {
			if logErrors {
				logLookupError(ctx, m, source.Name(), err)
			}
			continue
		}
		return identity
	}
	return placeholder(m.ProfilePicture)
}

func logLookupError(ctx context.Context, m members.Member, source string, err error) {
	switch {
	case errors.Is(err, ErrNoAvatar):
		slog.DebugContext(ctx, "Source has no avatar", slog.String("member", m.ID), slog.String("source", source))
	case errors.Is(err, platform.ErrNotFound):
		slog.WarnContext(ctx, "Linked account not found", slog.String("member", m.ID), slog.String("source", source), slog.Any("err", err))
	default:
		slog.ErrorContext(ctx, "Failed to look up linked account", slog.String("member", m.ID), slog.String("source", source), slog.Any("err", err))
	}
}

// osuWidgetKeys are the account and mode pairs shown on the member page, in
// display order.
func osuWidgetKeys(m members.Member) []osuKey {
	var keys []osuKey
	seen := make(map[osuKey]struct{})
	for _, account := range m.Games.Osu {
		for _, mode := range account.Modes() {
			key := osuKey{id: account.ID, mode: mode}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// osuLookupKeys adds the standard mode of the first account, which the
// avatar source needs even when it is not shown.
func osuLookupKeys(m members.Member) []osuKey {
	keys := osuWidgetKeys(m)
	if len(m.Games.Osu) == 0 {
		return keys
	}
	avatarKey := osuKey{id: m.Games.Osu[0].ID, mode: osu.ModeOsu}
	for _, key := range keys {
		if key == avatarKey {
			return keys
		}
	}
	return append(keys, avatarKey)
}

func (r *Resolver) settle(ctx context.Context, m members.Member) *settled {
	s := &settled{
		osu: make(map[osuKey]result[osu.User]),
	}

	eg, lookupCtx := tsync.ErrorGroupWithContext(ctx)
	if id := m.Games.Discord; id != "" {
		eg.Go(func() error {
			presence, err := r.lookup.Presence(lookupCtx, id)
			s.presence = result[lanyard.Presence]{value: presence, err: err}
			return sourceError(SourceDiscord, err)
		})
	}

	var mu sync.Mutex
	for _, key := range osuLookupKeys(m) {
		eg.Go(func() error {
			user, err := r.lookup.OsuUser(lookupCtx, key.id, key.mode)
			mu.Lock()
			defer mu.Unlock()
			s.osu[key] = result[osu.User]{value: user, err: err}
			return sourceError(SourceOsu, err)
		})
	}

	if id := m.Games.Quaver; id != "" {
		eg.Go(func() error {
			p, err := r.lookup.QuaverUser(lookupCtx, id)
			s.quaver = result[quaver.Profile]{value: p, err: err}
			return sourceError(SourceQuaver, err)
		})
	}

	if id := m.Games.BeatLeader; id != "" {
		eg.Go(func() error {
			p, err := r.lookup.BeatLeaderPlayer(lookupCtx, id)
			s.beatLeader = result[beatleader.Profile]{value: p, err: err}
			return sourceError(SourceBeatLeader, err)
		})
	}

	for _, err := range xerrors.Unwrap(eg.Wait()) {
		source := "unknown"
		var lookupErr *lookupError
		if errors.As(err, &lookupErr) {
			source = lookupErr.source
		}
		logLookupError(ctx, m, source, err)
	}
	return s
}

type lookupError struct {
	source string
	err    error
}

func (e *lookupError) Error() string {
	return e.source + ": " + e.err.Error()
}

func (e *lookupError) Unwrap() error {
	return e.err
}

func sourceError(source string, err error) error {
	if err == nil {
		return nil
	}
	return &lookupError{source: source, err: err}
}
