package quaver

import (
	"fmt"

	"github.com/cirno-club/clubsite/internal/omit"
)

type Mode string

const (
	Mode4K Mode = "4k"
	Mode7K Mode = "7k"
)

type Profile struct {
	ID        string
	Username  string
	Country   string
	AvatarURL string
	Modes     []ModeStats
}

func (p Profile) ProfileURL() string {
	return fmt.Sprintf("https://quavergame.com/user/%s", p.ID)
}

// ModeStats are the statistics of one key mode. A player who never played a
// mode still gets a zeroed entry.
type ModeStats struct {
	Mode        Mode
	Rating      float64
	GlobalRank  int
	CountryRank omit.Omit[int]
	PlayCount   int
	Accuracy    float64
	RankedScore int64
	TotalScore  int64
	Grades      []Grade
}

type Grade struct {
	Name  string
	Count int
}

type userResp struct {
	User *user `json:"user"`
}

type user struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Country    string     `json:"country"`
	AvatarURL  string     `json:"avatar_url"`
	StatsKeys4 *modeStats `json:"stats_keys4"`
	StatsKeys7 *modeStats `json:"stats_keys7"`
}

type modeStats struct {
	OverallPerformanceRating float64 `json:"overall_performance_rating"`
	Ranks                    *struct {
		Global  int            `json:"global"`
		Country omit.Omit[int] `json:"country"`
	} `json:"ranks"`
	PlayCount       int     `json:"play_count"`
	OverallAccuracy float64 `json:"overall_accuracy"`
	RankedScore     int64   `json:"ranked_score"`
	TotalScore      int64   `json:"total_score"`
	CountGradeX     int     `json:"count_grade_x"`
	CountGradeSS    int     `json:"count_grade_ss"`
	CountGradeS     int     `json:"count_grade_s"`
	CountGradeA     int     `json:"count_grade_a"`
	CountGradeB     int     `json:"count_grade_b"`
}

func newModeStats(mode Mode, stats *modeStats) ModeStats {
	if stats == nil {
		return ModeStats{Mode: mode}
	}

	ms := ModeStats{
		Mode:        mode,
		Rating:      stats.OverallPerformanceRating,
		PlayCount:   stats.PlayCount,
		Accuracy:    stats.OverallAccuracy,
		RankedScore: stats.RankedScore,
		TotalScore:  stats.TotalScore,
		Grades: []Grade{
			{Name: "x", Count: stats.CountGradeX},
			{Name: "ss", Count: stats.CountGradeSS},
			{Name: "s", Count: stats.CountGradeS},
			{Name: "a", Count: stats.CountGradeA},
			{Name: "b", Count: stats.CountGradeB},
		},
	}
	if stats.Ranks != nil {
		ms.GlobalRank = stats.Ranks.Global
		ms.CountryRank = stats.Ranks.Country
	}
	return ms
}
