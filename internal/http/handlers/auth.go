package handlers

import (
	"fmt"
	"net/http"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/middleware"
	"tailorpreview/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Portal   string `json:"portal"`
}

type sessionResponse struct {
	State   session.State   `json:"state"`
	Surface session.Surface `json:"surface"`
}

type loginResponse struct {
	Session domain.Session `json:"session"`
	sessionResponse
}

func newSessionResponse(state session.State) sessionResponse {
	return sessionResponse{State: state, Surface: state.Surface()}
}

func (a *App) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	portal, err := session.ParsePortal(req.Portal)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	sess, state, err := a.Auth.Login(r.Context(), req.Email, req.Password, portal)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, loginResponse{Session: sess, sessionResponse: newSessionResponse(state)})
}

// Logout signs the caller out and forgets their workspace.
func (a *App) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token == "" {
		a.fail(w, r, fmt.Errorf("%w: missing bearer token", domain.ErrAuth))
		return
	}
	userID := middleware.UserIDFromContext(r.Context())
	if err := a.Auth.Logout(r.Context(), token); err != nil {
		a.fail(w, r, err)
		return
	}
	if userID != "" {
		a.Workspaces.Drop(userID)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) Session(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, newSessionResponse(middleware.SessionFromContext(r.Context())))
}
