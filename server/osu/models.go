package osu

import (
	"fmt"

	"github.com/cirno-club/clubsite/internal/omit"
)

type Mode string

const (
	ModeOsu   Mode = "osu"
	ModeTaiko Mode = "taiko"
	ModeMania Mode = "mania"
	ModeCatch Mode = "catch"
)

var Modes = []Mode{ModeOsu, ModeTaiko, ModeMania, ModeCatch}

func (m Mode) Valid() bool {
	switch m {
	case ModeOsu, ModeTaiko, ModeMania, ModeCatch:
		return true
	}
	return false
}

// Ruleset is the name osu! itself uses for the mode in profile URLs.
func (m Mode) Ruleset() string {
	if m == ModeCatch {
		return "fruits"
	}
	return string(m)
}

// Label is "osu!" followed by the mode name for anything but standard.
func (m Mode) Label() string {
	if m == ModeOsu {
		return "osu!"
	}
	return "osu!" + string(m)
}

// User is the flattened profile of one account in one mode. Numeric
// statistics the proxy did not send are unknown, never zero.
type User struct {
	ID          int
	Username    string
	AvatarURL   string
	CountryCode string
	Mode        Mode
	PP          omit.Omit[float64]
	PlayCount   omit.Omit[int]
	HitAccuracy omit.Omit[float64]
	RankedScore omit.Omit[int64]
	TotalScore  omit.Omit[int64]
	GlobalRank  omit.Omit[int]
	CountryRank omit.Omit[int]
	Grades      []Grade
}

func (u User) ProfileURL() string {
	return fmt.Sprintf("https://osu.ppy.sh/users/%d/%s", u.ID, u.Mode.Ruleset())
}

type Grade struct {
	Name  string
	Count int
}

type userResp struct {
	ID          int        `json:"id"`
	Username    string     `json:"username"`
	AvatarURL   string     `json:"avatar_url"`
	CountryCode string     `json:"country_code"`
	Statistics  statistics `json:"statistics"`
}

type statistics struct {
	PP          omit.Omit[float64] `json:"pp"`
	PlayCount   omit.Omit[int]     `json:"play_count"`
	HitAccuracy omit.Omit[float64] `json:"hit_accuracy"`
	RankedScore omit.Omit[int64]   `json:"ranked_score"`
	TotalScore  omit.Omit[int64]   `json:"total_score"`
	GlobalRank  omit.Omit[int]     `json:"global_rank"`
	CountryRank omit.Omit[int]     `json:"country_rank"`
	Rank        *struct {
		Country omit.Omit[int] `json:"country"`
	} `json:"rank"`
	GradeCounts *gradeCounts `json:"grade_counts"`
}

type gradeCounts struct {
	SS  int `json:"ss"`
	SSH int `json:"ssh"`
	S   int `json:"s"`
	SH  int `json:"sh"`
	A   int `json:"a"`
}

func newUser(rs userResp, mode Mode) *User {
	stats := rs.Statistics

	countryRank := stats.CountryRank
	if stats.Rank != nil && stats.Rank.Country.OK {
		countryRank = stats.Rank.Country
	}

	var grades []Grade
	if gc := stats.GradeCounts; gc != nil {
		grades = []Grade{
			{Name: "ss", Count: gc.SS},
			{Name: "ssh", Count: gc.SSH},
			{Name: "s", Count: gc.S},
			{Name: "sh", Count: gc.SH},
			{Name: "a", Count: gc.A},
		}
	}

	return &User{
		ID:          rs.ID,
		Username:    rs.Username,
		AvatarURL:   rs.AvatarURL,
		CountryCode: rs.CountryCode,
		Mode:        mode,
		PP:          stats.PP,
		PlayCount:   stats.PlayCount,
		HitAccuracy: stats.HitAccuracy,
		RankedScore: stats.RankedScore,
		TotalScore:  stats.TotalScore,
		GlobalRank:  stats.GlobalRank,
		CountryRank: countryRank,
		Grades:      grades,
	}
}
