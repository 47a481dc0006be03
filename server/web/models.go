package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/cirno-club/clubsite/internal/omit"
	"github.com/cirno-club/clubsite/server"
	"github.com/cirno-club/clubsite/server/beatleader"
	"github.com/cirno-club/clubsite/server/lanyard"
	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/osu"
	"github.com/cirno-club/clubsite/server/platform"
	"github.com/cirno-club/clubsite/server/profile"
	"github.com/cirno-club/clubsite/server/quaver"
)

const unknownValue = "-"

// Page is the data every page layout needs.
type Page struct {
	Title  string
	Active string
	Dev    bool
}

type Game struct {
	ID    string
	Label string
	Icon  string
}

func newGame(g members.Game) Game {
	return Game{
		ID:    string(g),
		Label: g.Label(),
		Icon:  gameIcon(string(g)),
	}
}

func gameIcon(id string) string {
	return fmt.Sprintf("/static/icons/%s.svg", id)
}

var titleClasses = []string{"is-danger", "is-warning", "is-primary", "is-success"}

func titleClass(title string) string {
	if rank := members.TitleRank(title); rank < len(titleClasses) {
		return titleClasses[rank]
	}
	return "is-light"
}

type MemberCard struct {
	ID          string
	Username    string
	URL         string
	Title       string
	TitleClass  string
	CountryFlag string
	AvatarURL   string
	Status      profile.Status
	Games       []Game
}

func newMemberCard(card profile.Card) MemberCard {
	m := card.Member

	var games []Game
	for _, g := range members.Games {
		if m.HasGame(g) {
			games = append(games, newGame(g))
		}
	}

	return MemberCard{
		ID:          m.ID,
		Username:    m.Username,
		URL:         m.URL(),
		Title:       m.Title,
		TitleClass:  titleClass(m.Title),
		CountryFlag: m.CountryFlag,
		AvatarURL:   card.Identity.AvatarURL,
		Status:      card.Identity.Status,
		Games:       games,
	}
}

func newMemberCards(cards []profile.Card) []MemberCard {
	memberCards := make([]MemberCard, len(cards))
	for i, card := range cards {
		memberCards[i] = newMemberCard(card)
	}
	return memberCards
}

type Stat struct {
	Label string
	Value string
}

type Grade struct {
	Label string
	Class string
	Count string
}

// Widget is the statistics box of one platform account.
type Widget struct {
	Platform  string
	Title     string
	Icon      string
	URL       string
	AvatarURL string
	Username  string
	Country   string
	Stats     []Stat
	Scores    []Stat
	Grades    []Grade
}

func avatarOrPlaceholder(avatarURL string) string {
	if avatarURL == "" {
		return platform.PlaceholderImage
	}
	return avatarURL
}

func formatOmitInt[T ~int | ~int64](v omit.Omit[T]) string {
	if !v.OK {
		return unknownValue
	}
	return server.FormatInt(v.Value)
}

func formatOmitFloat(v omit.Omit[float64], decimals int) string {
	if !v.OK {
		return unknownValue
	}
	return server.FormatFloat(v.Value, decimals)
}

func percent(v string) string {
	if v == unknownValue {
		return v
	}
	return v + "%"
}

func newGrade(name string, count int) Grade {
	label := strings.ToUpper(name)
	switch name {
	case "ssp":
		label = "SS+"
	case "sp":
		label = "S+"
	}
	return Grade{
		Label: label,
		Class: "grade-" + strings.ToLower(name),
		Count: server.FormatInt(count),
	}
}

func newOsuWidget(u *osu.User) Widget {
	grades := make([]Grade, len(u.Grades))
	for i, g := range u.Grades {
		grades[i] = newGrade(g.Name, g.Count)
	}

	return Widget{
		Platform:  "osu",
		Title:     u.Mode.Label(),
		Icon:      gameIcon("osu"),
		URL:       u.ProfileURL(),
		AvatarURL: avatarOrPlaceholder(u.AvatarURL),
		Username:  u.Username,
		Country:   u.CountryCode,
		Stats: []Stat{
			{Label: "Global Rank", Value: formatOmitInt(u.GlobalRank)},
			{Label: "Country Rank", Value: formatOmitInt(u.CountryRank)},
			{Label: "PP", Value: formatOmitFloat(u.PP, 2)},
			{Label: "Accuracy", Value: percent(formatOmitFloat(u.HitAccuracy, 2))},
		},
		Scores: []Stat{
			{Label: "Ranked Score", Value: formatOmitInt(u.RankedScore)},
			{Label: "Total Score", Value: formatOmitInt(u.TotalScore)},
		},
		Grades: grades,
	}
}

// newQuaverWidgets returns one widget per key mode. Modes without a rating
// were never played and are left out.
func newQuaverWidgets(p *quaver.Profile, username string) []Widget {
	var widgets []Widget
	for _, stats := range p.Modes {
		if stats.Rating == 0 {
			continue
		}

		grades := make([]Grade, len(stats.Grades))
		for i, g := range stats.Grades {
			grades[i] = newGrade(g.Name, g.Count)
		}

		widgets = append(widgets, Widget{
			Platform:  "quaver",
			Title:     "Quaver",
			Icon:      gameIcon("quaver"),
			URL:       p.ProfileURL(),
			AvatarURL: avatarOrPlaceholder(p.AvatarURL),
			Username:  username,
			Country:   p.Country,
			Stats: []Stat{
				{Label: "Global Rank", Value: server.FormatInt(stats.GlobalRank)},
				{Label: "Country Rank", Value: formatOmitInt(stats.CountryRank)},
				{Label: "Rating", Value: server.FormatFloat(stats.Rating, 0)},
				{Label: "Accuracy", Value: percent(server.FormatFloat(stats.Accuracy, 2))},
				{Label: "Mode", Value: strings.ToUpper(string(stats.Mode))},
			},
			Scores: []Stat{
				{Label: "Ranked Score", Value: server.FormatInt(stats.RankedScore)},
				{Label: "Total Score", Value: server.FormatInt(stats.TotalScore)},
			},
			Grades: grades,
		})
	}
	return widgets
}

func newBeatLeaderWidget(p *beatleader.Profile) Widget {
	accuracy := unknownValue
	var scores []Stat
	var grades []Grade
	if s := p.Stats; s != nil {
		accuracy = percent(server.FormatFloat(s.AverageRankedAccuracy, 2))
		scores = []Stat{
			{Label: "Ranked Score", Value: server.FormatInt(s.RankedScore)},
			{Label: "Total Score", Value: server.FormatInt(s.TotalScore)},
			{Label: "Play Count", Value: server.FormatInt(s.PlayCount)},
		}
		for _, g := range s.Grades {
			grades = append(grades, newGrade(g.Name, g.Count))
		}
	}

	return Widget{
		Platform:  "beatleader",
		Title:     "BeatLeader",
		Icon:      gameIcon("beatleader"),
		URL:       p.ProfileURL(),
		AvatarURL: avatarOrPlaceholder(p.AvatarURL),
		Username:  p.Name,
		Country:   p.Country,
		Stats: []Stat{
			{Label: "Global Rank", Value: server.FormatInt(p.Rank)},
			{Label: "Country Rank", Value: server.FormatInt(p.CountryRank)},
			{Label: "PP", Value: server.FormatFloat(p.PP, 0)},
			{Label: "Accuracy", Value: accuracy},
		},
		Scores: scores,
		Grades: grades,
	}
}

type Activity struct {
	Name          string
	Details       string
	State         string
	LargeImageURL string
	SmallImageURL string
	Timer         string
}

// newActivities lists the presence's activities without the custom status.
func newActivities(p *lanyard.Presence, now time.Time) []Activity {
	var activities []Activity
	for _, a := range p.Activities {
		if a.Type == discord.ActivityTypeCustom {
			continue
		}

		var timer string
		if minutes, ok := a.Minutes(now); ok {
			timer = fmt.Sprintf("⏱ %d min", minutes)
		}

		activities = append(activities, Activity{
			Name:          a.Name,
			Details:       a.Details,
			State:         a.State,
			LargeImageURL: a.LargeImageURL(),
			SmallImageURL: a.SmallImageURL(),
			Timer:         timer,
		})
	}
	return activities
}

// newWidgets orders the widgets BeatLeader first, then Quaver, then every
// osu! account and mode.
func newWidgets(d profile.Detail) []Widget {
	var widgets []Widget
	if d.BeatLeader != nil {
		widgets = append(widgets, newBeatLeaderWidget(d.BeatLeader))
	}
	if d.Quaver != nil {
		widgets = append(widgets, newQuaverWidgets(d.Quaver, d.Member.Username)...)
	}
	for _, u := range d.Osu {
		widgets = append(widgets, newOsuWidget(u))
	}
	return widgets
}
