package web

import (
	"net/http"
)

type IndexVars struct {
	Page
	Founders      []MemberCard
	DiscordInvite string
	Members       int
}

func (h *handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	founders := h.Profiles.Cards(ctx, h.Members.WithTitle("Leader"))

	h.render(w, r, http.StatusOK, "index.gohtml", IndexVars{
		Page:          h.page("Cirno Appreciation Club", "home"),
		Founders:      newMemberCards(founders),
		DiscordInvite: h.Cfg.Server.DiscordInvite,
		Members:       h.Members.Len(),
	})
}
