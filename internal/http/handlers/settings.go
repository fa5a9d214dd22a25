package handlers

import (
	"net/http"

	"tailorpreview/internal/middleware"
)

func (a *App) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := a.Settings.Prompt(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

func (a *App) PutPrompt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.Settings.SetPrompt(r.Context(), middleware.UserIDFromContext(r.Context()), req.Prompt)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}

// ResetPrompt drops the override and returns the default prompt.
func (a *App) ResetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := a.Settings.ResetPrompt(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, p)
}
