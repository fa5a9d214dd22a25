package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tailorpreview/internal/domain"
)

type profilesResponse struct {
	Profiles []domain.Profile     `json:"profiles"`
	Counts   domain.ProfileCounts `json:"counts"`
}

func (a *App) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, counts, err := a.Profiles.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []domain.Profile{}
	}
	a.json(w, http.StatusOK, profilesResponse{Profiles: profiles, Counts: counts})
}

func (a *App) SetProfileRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.Profiles.SetRole(r.Context(), chi.URLParam(r, "id"), req.Role); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
