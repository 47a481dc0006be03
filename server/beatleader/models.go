package beatleader

import (
	"fmt"
)

type Profile struct {
	ID                 string
	Name               string
	Country            string
	AvatarURL          string
	PP                 float64
	Rank               int
	CountryRank        int
	ExternalProfileURL string
	// Stats is nil when the player has no score statistics yet.
	Stats *ScoreStats
}

func (p Profile) ProfileURL() string {
	return fmt.Sprintf("https://beatleader.xyz/u/%s", p.ID)
}

type ScoreStats struct {
	RankedScore int64
	TotalScore  int64
	PlayCount   int
	// AverageRankedAccuracy is a percentage in the 0-100 range.
	AverageRankedAccuracy float64
	Grades                []Grade
}

type Grade struct {
	Name  string
	Count int
}

type playerResp struct {
	ID                 string      `json:"id"`
	Name               string      `json:"name"`
	Country            string      `json:"country"`
	Avatar             string      `json:"avatar"`
	PP                 float64     `json:"pp"`
	Rank               int         `json:"rank"`
	CountryRank        int         `json:"countryRank"`
	ExternalProfileURL string      `json:"externalProfileUrl"`
	ScoreStats         *scoreStats `json:"scoreStats"`
}

type scoreStats struct {
	TotalRankedScore      int64   `json:"totalRankedScore"`
	TotalScore            int64   `json:"totalScore"`
	RankedPlayCount       int     `json:"rankedPlayCount"`
	AverageRankedAccuracy float64 `json:"averageRankedAccuracy"`
	SSPPlays              int     `json:"sspPlays"`
	SSPlays               int     `json:"ssPlays"`
	SPPlays               int     `json:"spPlays"`
	SPlays                int     `json:"sPlays"`
	APlays                int     `json:"aPlays"`
}

// accuracyPercent converts the API's 0-1 accuracy fraction. It is applied
// once, while building a Profile.
func accuracyPercent(fraction float64) float64 {
	return fraction * 100
}

func newProfile(rs playerResp) *Profile {
	p := &Profile{
		ID:                 rs.ID,
		Name:               rs.Name,
		Country:            rs.Country,
		AvatarURL:          rs.Avatar,
		PP:                 rs.PP,
		Rank:               rs.Rank,
		CountryRank:        rs.CountryRank,
		ExternalProfileURL: rs.ExternalProfileURL,
	}
	if p.Name == "" {
		p.Name = "Unknown Player"
	}
	if p.Country == "" {
		p.Country = "??"
	}
	if p.ExternalProfileURL == "" {
		p.ExternalProfileURL = p.ProfileURL()
	}

	if s := rs.ScoreStats; s != nil {
		p.Stats = &ScoreStats{
			RankedScore:           s.TotalRankedScore,
			TotalScore:            s.TotalScore,
			PlayCount:             s.RankedPlayCount,
			AverageRankedAccuracy: accuracyPercent(s.AverageRankedAccuracy),
			Grades: []Grade{
				{Name: "ssp", Count: s.SSPPlays},
				{Name: "ss", Count: s.SSPlays},
				{Name: "sp", Count: s.SPPlays},
				{Name: "s", Count: s.SPlays},
				{Name: "a", Count: s.APlays},
			},
		}
	}
	return p
}
