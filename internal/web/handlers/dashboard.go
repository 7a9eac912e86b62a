package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/medcasegen/internal/web/flash"
	"github.com/dmitrijs2005/medcasegen/internal/web/views"
	"github.com/gorilla/mux"
)

const msgProfileUnavailable = "Impossible de charger votre profil."

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	section, ok := views.DashboardHome(), true
	if name, has := mux.Vars(r)["section"]; has {
		section, ok = views.LookupSection(name)
	}
	if !ok {
		h.notFound(w, r)
		return
	}

	s := h.session(w, r)
	user, err := s.api.Me(r.Context())
	if s.nav.requested {
		h.expired(w, r)
		return
	}

	var extra []flash.Message
	if err != nil {
		h.logger.Warn(r.Context(), "cannot load profile", "error", err)
		extra = append(extra, flash.Message{Kind: flash.Error, Text: msgProfileUnavailable})
	}

	path := r.URL.Path
	h.render(w, r, http.StatusOK, views.Dashboard, views.Page{
		Title: section.Label,
		View:  views.ParseViewState(r.URL.Query()),
		Data: views.DashboardData{
			User:    user,
			Nav:     views.Navigation(path),
			Section: section,
			Path:    path,
		},
	}, extra...)
}
