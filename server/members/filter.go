package members

import (
	"slices"
	"strings"
)

// TitleOrder ranks titles for sorting, highest first.
var TitleOrder = []string{"Leader", "Admin", "Mod", "Member"}

// TitleRank is the index of title in TitleOrder, or len(TitleOrder) for an
// empty or unrecognized title.
func TitleRank(title string) int {
	for i, t := range TitleOrder {
		if strings.EqualFold(t, title) {
			return i
		}
	}
	return len(TitleOrder)
}

// Filter selects members. Zero fields match everything; set fields must all
// match.
type Filter struct {
	Game  Game
	Title string
}

func (f Filter) Match(m Member) bool {
	if f.Game != "" && !m.HasGame(f.Game) {
		return false
	}
	if f.Title != "" && !strings.Contains(strings.ToLower(m.Title), strings.ToLower(f.Title)) {
		return false
	}
	return true
}

// Apply returns the members matching f, sorted by title rank. Members with
// the same rank keep their relative order.
func (f Filter) Apply(members []Member) []Member {
	filtered := make([]Member, 0, len(members))
	for _, m := range members {
		if f.Match(m) {
			filtered = append(filtered, m)
		}
	}
	SortByTitle(filtered)
	return filtered
}

func SortByTitle(members []Member) {
	slices.SortStableFunc(members, func(a Member, b Member) int {
		return TitleRank(a.Title) - TitleRank(b.Title)
	})
}
