package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/disgoorg/disgo/discord"

	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/quaver"
)

type fakeLookup struct {
	mu    sync.Mutex
	calls []string

	presence   func(ctx context.Context) (*lanyard.Presence, error)
	osu        func(id int, mode osu.Mode) (*osu.User, error)
	quaver     func() (*quaver.Profile, error)
	beatLeader func() (*beatleader.Profile, error)
}

func (f *fakeLookup) called(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeLookup) Presence(ctx context.Context, _ string) (*lanyard.Presence, error) {
	f.called("discord")
	if f.presence == nil {
		return nil, platform.ErrNotFound
	}
	return f.presence(ctx)
}

func (f *fakeLookup) OsuUser(_ context.Context, id int, mode osu.Mode) (*osu.User, error) {
	f.called(fmt.Sprintf("osu %d %s", id, mode))
	if f.osu == nil {
		return nil, platform.ErrNotFound
	}
	return f.osu(id, mode)
}

func (f *fakeLookup) QuaverUser(context.Context, string) (*quaver.Profile, error) {
	f.called("quaver")
	if f.quaver == nil {
		return nil, platform.ErrNotFound
	}
	return f.quaver()
}

func (f *fakeLookup) BeatLeaderPlayer(context.Context, string) (*beatleader.Profile, error) {
	f.called("beatleader")
	if f.beatLeader == nil {
		return nil, platform.ErrNotFound
	}
	return f.beatLeader()
}

var everyAccount = members.Member{
	ID:          "cirno",
	CountryFlag: "🇯🇵",
	Games: members.Links{
		Osu:        []members.OsuAccount{{ID: 9, Standard: true, Mania: true}, {ID: 10, Taiko: true}},
		Quaver:     "cirno9",
		BeatLeader: "76561198000000009",
		Discord:    "900000000000000009",
	},
}

func presence(status discord.OnlineStatus) *lanyard.Presence {
	return &lanyard.Presence{
		User:   lanyard.User{ID: 900000000000000009, Avatar: "abc"},
		Status: status,
	}
}

func TestStatusFromDiscord(t *testing.T) {
	tests := []struct {
		status discord.OnlineStatus
		want   Status
	}{
		{discord.OnlineStatusOnline, StatusGreen},
		{discord.OnlineStatusIdle, StatusYellow},
		{discord.OnlineStatusDND, StatusRed},
		{discord.OnlineStatusOffline, StatusGray},
		{discord.OnlineStatus("streaming"), StatusGray},
		{"", StatusGray},
	}
	for _, tt := range tests {
		if got := StatusFromDiscord(tt.status); got != tt.want {
			t.Errorf("StatusFromDiscord(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestCardDiscordShortCircuits(t *testing.T) {
	lookup := &fakeLookup{
		presence: func(context.Context) (*lanyard.Presence, error) {
			return presence(discord.OnlineStatusIdle), nil
		},
	}

	identity := NewResolver(lookup).Card(context.Background(), everyAccount)
	if identity.Source != "discord" || identity.Status != StatusYellow {
		t.Fatalf("unexpected identity %+v", identity)
	}
	if identity.AvatarURL != "https://cdn.discordapp.com/avatars/900000000000000009/abc.png?size=128" {
		t.Fatalf("unexpected avatar %q", identity.AvatarURL)
	}
	if !slices.Equal(lookup.calls, []string{"discord"}) {
		t.Fatalf("expected only the discord lookup, got %v", lookup.calls)
	}
}

func TestCardFallsThroughFailures(t *testing.T) {
	lookup := &fakeLookup{
		presence: func(context.Context) (*lanyard.Presence, error) {
			return nil, errors.New("connection refused")
		},
		osu: func(int, osu.Mode) (*osu.User, error) {
			return nil, &platform.StatusError{StatusCode: http.StatusInternalServerError, Body: "oops"}
		},
		quaver: func() (*quaver.Profile, error) {
			return &quaver.Profile{ID: "1"}, nil
		},
		beatLeader: func() (*beatleader.Profile, error) {
			return &beatleader.Profile{AvatarURL: "https://cdn.beatleader.xyz/a.png"}, nil
		},
	}

	identity := NewResolver(lookup).Card(context.Background(), everyAccount)
	want := Identity{AvatarURL: "https://cdn.beatleader.xyz/a.png", Status: StatusGray, Source: "beatleader"}
	if identity != want {
		t.Fatalf("got %+v, want %+v", identity, want)
	}
	wantCalls := []string{"discord", "osu 9 osu", "quaver", "beatleader"}
	if !slices.Equal(lookup.calls, wantCalls) {
		t.Fatalf("got calls %v, want %v", lookup.calls, wantCalls)
	}
}

func TestCardQuaverOnly(t *testing.T) {
	m := members.Member{
		ID: "rumia",
		Games: members.Links{
			Osu:    []members.OsuAccount{{ID: 4, Standard: true}},
			Quaver: "rumia",
		},
	}
	lookup := &fakeLookup{
		osu: func(int, osu.Mode) (*osu.User, error) {
			return nil, platform.ErrNotFound
		},
		quaver: func() (*quaver.Profile, error) {
			return &quaver.Profile{AvatarURL: "https://quaver/avatar.png"}, nil
		},
	}

	identity := NewResolver(lookup).Card(context.Background(), m)
	if identity.Source != "quaver" || identity.AvatarURL != "https://quaver/avatar.png" || identity.Status != StatusGray {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestCardPlaceholder(t *testing.T) {
	tests := []struct {
		name   string
		member members.Member
		want   string
	}{
		{
			name:   "static placeholder",
			member: members.Member{ID: "wriggle"},
			want:   platform.PlaceholderImage,
		},
		{
			name:   "own picture",
			member: members.Member{ID: "wriggle", ProfilePicture: "/static/wriggle.png"},
			want:   "/static/wriggle.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := &fakeLookup{}
			identity := NewResolver(lookup).Card(context.Background(), tt.member)
			if identity.AvatarURL != tt.want || identity.Status != StatusGray || identity.Source != SourcePlaceholder {
				t.Fatalf("unexpected identity %+v", identity)
			}
			if len(lookup.calls) != 0 {
				t.Fatalf("expected no lookups, got %v", lookup.calls)
			}
		})
	}
}

func TestCardsKeepOrder(t *testing.T) {
	ms := make([]members.Member, 20)
	for i := range ms {
		ms[i] = members.Member{ID: fmt.Sprintf("m%d", i)}
	}

	cards := NewResolver(&fakeLookup{}).Cards(context.Background(), ms)
	if len(cards) != len(ms) {
		t.Fatalf("expected %d cards, got %d", len(ms), len(cards))
	}
	for i, card := range cards {
		if card.Member.ID != ms[i].ID {
			t.Fatalf("card %d is %q, want %q", i, card.Member.ID, ms[i].ID)
		}
	}
}

func TestDetailDiscordWinsWhenItArrivesLast(t *testing.T) {
	quaverDone := make(chan struct{})
	lookup := &fakeLookup{
		presence: func(ctx context.Context) (*lanyard.Presence, error) {
			select {
			case <-quaverDone:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return presence(discord.OnlineStatusDND), nil
		},
		osu: func(id int, mode osu.Mode) (*osu.User, error) {
			return &osu.User{ID: id, Mode: mode, AvatarURL: "https://a.ppy.sh/9"}, nil
		},
		quaver: func() (*quaver.Profile, error) {
			defer close(quaverDone)
			return &quaver.Profile{AvatarURL: "https://quaver/avatar.png", Country: "JP"}, nil
		},
		beatLeader: func() (*beatleader.Profile, error) {
			return &beatleader.Profile{AvatarURL: "https://cdn.beatleader.xyz/a.png", Country: "DE"}, nil
		},
	}

	d := NewResolver(lookup).Detail(context.Background(), everyAccount)
	if d.Identity.Source != "discord" || d.Identity.Status != StatusRed {
		t.Fatalf("unexpected identity %+v", d.Identity)
	}
	if d.Presence == nil || d.Quaver == nil || d.BeatLeader == nil {
		t.Fatalf("expected every widget, got %+v", d)
	}
	if d.Country != "DE" {
		t.Fatalf("expected BeatLeader country, got %q", d.Country)
	}
	if d.NoData {
		t.Fatal("unexpected NoData")
	}

	var got []string
	for _, u := range d.Osu {
		got = append(got, fmt.Sprintf("%d %s", u.ID, u.Mode))
	}
	want := []string{"9 osu", "9 mania", "10 taiko"}
	if !slices.Equal(got, want) {
		t.Fatalf("got osu! widgets %v, want %v", got, want)
	}
}

func TestDetailFetchesAvatarModeWithoutWidget(t *testing.T) {
	m := members.Member{
		ID: "daiyousei",
		Games: members.Links{
			Osu: []members.OsuAccount{{ID: 8, Catch: true}},
		},
	}
	lookup := &fakeLookup{
		osu: func(id int, mode osu.Mode) (*osu.User, error) {
			return &osu.User{ID: id, Mode: mode, AvatarURL: "https://a.ppy.sh/8"}, nil
		},
	}

	d := NewResolver(lookup).Detail(context.Background(), m)
	if d.Identity.Source != "osu" || d.Identity.AvatarURL != "https://a.ppy.sh/8" {
		t.Fatalf("unexpected identity %+v", d.Identity)
	}
	if len(d.Osu) != 1 || d.Osu[0].Mode != osu.ModeCatch {
		t.Fatalf("expected only the catch widget, got %+v", d.Osu)
	}
	if len(lookup.calls) != 2 {
		t.Fatalf("expected two osu! lookups, got %v", lookup.calls)
	}
}

func TestDetailNoData(t *testing.T) {
	failing := errors.New("boom")
	lookup := &fakeLookup{
		presence: func(context.Context) (*lanyard.Presence, error) { return nil, failing },
		osu:      func(int, osu.Mode) (*osu.User, error) { return nil, failing },
		quaver:   func() (*quaver.Profile, error) { return nil, failing },
		beatLeader: func() (*beatleader.Profile, error) {
			return nil, failing
		},
	}

	d := NewResolver(lookup).Detail(context.Background(), everyAccount)
	if !d.NoData {
		t.Fatal("expected NoData")
	}
	if d.Identity.Source != SourcePlaceholder || d.Identity.Status != StatusGray {
		t.Fatalf("unexpected identity %+v", d.Identity)
	}
	if d.Country != "🇯🇵" {
		t.Fatalf("expected flag fallback, got %q", d.Country)
	}
}

func TestDetailWithoutLinkedAccounts(t *testing.T) {
	d := NewResolver(&fakeLookup{}).Detail(context.Background(), members.Member{ID: "wriggle", CountryFlag: "🇧🇷"})
	if d.NoData {
		t.Fatal("a member without accounts has no failed lookups")
	}
	if d.Identity.Source != SourcePlaceholder || d.Presence != nil || d.Osu != nil || d.Quaver != nil || d.BeatLeader != nil {
		t.Fatalf("unexpected detail %+v", d)
	}
}

func TestDetailCountryFallsBackToQuaver(t *testing.T) {
	m := members.Member{
		ID:          "rumia",
		CountryFlag: "🇫🇷",
		Games:       members.Links{Quaver: "rumia", BeatLeader: "1"},
	}
	lookup := &fakeLookup{
		quaver: func() (*quaver.Profile, error) {
			return &quaver.Profile{Country: "FR"}, nil
		},
	}

	d := NewResolver(lookup).Detail(context.Background(), m)
	if d.Country != "FR" {
		t.Fatalf("expected Quaver country, got %q", d.Country)
	}
	if d.Identity.Source != SourcePlaceholder {
		t.Fatalf("expected placeholder without avatars, got %+v", d.Identity)
	}
}

type fakeOsuClient struct{ user *osu.User }

func (c fakeOsuClient) GetUser(_ context.Context, id int, mode osu.Mode) (*osu.User, error) {
	u := *c.user
	u.ID = id
	u.Mode = mode
	return &u, nil
}

func TestClientsLookup(t *testing.T) {
	clients := Clients{Osu: fakeOsuClient{user: &osu.User{Username: "cirno"}}}

	user, err := clients.OsuUser(context.Background(), 9, osu.ModeTaiko)
	if err != nil {
		t.Fatalf("osu! lookup: %v", err)
	}
	if user.ID != 9 || user.Mode != osu.ModeTaiko || user.Username != "cirno" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err = clients.QuaverUser(context.Background(), "x"); !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a Quaver client, got %v", err)
	}
}

func TestSourceError(t *testing.T) {
	if sourceError(SourceOsu, nil) != nil {
		t.Fatal("expected nil for a nil error")
	}

	err := sourceError(SourceQuaver, platform.ErrNotFound)
	if !errors.Is(err, platform.ErrNotFound) {
		t.Fatalf("expected %v to wrap ErrNotFound", err)
	}
	if err.Error() != "quaver: not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
