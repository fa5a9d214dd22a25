package handlers

import (
	"net/http"
)

func (a *App) Result(w http.ResponseWriter, r *http.Request) {
	result, err := a.workspace(r).Result()
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

func (a *App) EditResult(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Instruction string `json:"instruction"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	result, err := a.workspace(r).EditResult(r.Context(), req.Instruction)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, result)
}

// SaveResult stores the current, possibly edited, result in the gallery.
func (a *App) SaveResult(w http.ResponseWriter, r *http.Request) {
	item, err := a.workspace(r).SaveResult(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, item)
}

func (a *App) DownloadResult(w http.ResponseWriter, r *http.Request) {
	name, img, err := a.workspace(r).ResultImage(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, name, img.MIMEType, img.Data)
}
