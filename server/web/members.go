package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cirno-club/clubsite/internal/xquery"
	"github.com/cirno-club/clubsite/server/members"
	"github.com/cirno-club/clubsite/server/profile"
)

type FilterOption struct {
	Label  string
	Icon   string
	URL    string
	Active bool
}

type MembersVars struct {
	Page
	Cards  []MemberCard
	Games  []FilterOption
	Titles []FilterOption
}

func filterURL(game string, title string) string {
	query := url.Values{}
	if game != "" {
		query.Set("game", game)
	}
	if title != "" {
		query.Set("title", title)
	}
	if len(query) == 0 {
		return "/members"
	}
	return "/members?" + query.Encode()
}

func (h *handler) MembersPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	game := strings.ToLower(xquery.ParseString(query, "game", "all"))
	title := xquery.ParseString(query, "title", "")

	filter := members.Filter{Title: title}
	if game != "all" {
		filter.Game = members.Game(game)
	}
	if filter.Game != "" && !filter.Game.Valid() {
		slog.DebugContext(ctx, "Unknown game filter", slog.String("game", game))
	}

	selectedGame := string(filter.Game)
	games := []FilterOption{{
		Label:  "All Games",
		URL:    filterURL("", title),
		Active: selectedGame == "",
	}}
	for _, g := range members.Games {
		games = append(games, FilterOption{
			Label:  g.Label(),
			Icon:   gameIcon(string(g)),
			URL:    filterURL(string(g), title),
			Active: selectedGame == string(g),
		})
	}

	titles := []FilterOption{{
		Label:  "All Titles",
		URL:    filterURL(selectedGame, ""),
		Active: title == "",
	}}
	for _, t := range members.TitleOrder {
		titles = append(titles, FilterOption{
			Label:  t + "s",
			URL:    filterURL(selectedGame, t),
			Active: strings.EqualFold(title, t),
		})
	}

	cards := h.Profiles.Cards(ctx, filter.Apply(h.Members.All()))

	h.render(w, r, http.StatusOK, "members.gohtml", MembersVars{
		Page:   h.page("Members", "members"),
		Cards:  newMemberCards(cards),
		Games:  games,
		Titles: titles,
	})
}

type MemberVars struct {
	Page
	Username   string
	AvatarURL  string
	Status     profile.Status
	Country    string
	Activities []Activity
	Widgets    []Widget
	NoData     bool
}

func (h *handler) MemberPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memberID := r.PathValue("member_id")
	member, err := h.Members.Get(memberID)
	if err != nil {
		if errors.Is(err, members.ErrNotFound) {
			h.notFound(w, r, "Member not found.")
			return
		}
		slog.ErrorContext(ctx, "Failed to get member", slog.String("member_id", memberID), slog.Any("err", err))
		http.Error(w, "Failed to get member", http.StatusInternalServerError)
		return
	}

	detail := h.Profiles.Detail(ctx, member)

	var activities []Activity
	if detail.Presence != nil {
		activities = newActivities(detail.Presence, time.Now())
	}

	h.render(w, r, http.StatusOK, "member.gohtml", MemberVars{
		Page:       h.page(member.Username, "members"),
		Username:   member.Username,
		AvatarURL:  detail.Identity.AvatarURL,
		Status:     detail.Identity.Status,
		Country:    detail.Country,
		Activities: activities,
		Widgets:    newWidgets(detail),
		NoData:     detail.NoData,
	})
}
