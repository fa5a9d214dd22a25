package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/middleware"
	"tailorpreview/internal/session"
	"tailorpreview/internal/settings"
	"tailorpreview/internal/workspace"
)

const (
	maxBodyBytes       = 32 << 20
	defaultLoadTimeout = 30 * time.Second
)

var errBadRequest = errors.New("bad request")

// Authenticator signs users in and out; *session.Authenticator satisfies it.
type Authenticator interface {
	Login(ctx context.Context, email, password string, portal session.Portal) (domain.Session, session.State, error)
	Logout(ctx context.Context, token string) error
}

// Workspaces hands out per-user workspaces; *workspace.Registry satisfies it.
type Workspaces interface {
	Get(userID string) *workspace.Workspace
	Drop(userID string)
}

type ProfileAdmin interface {
	List(ctx context.Context) ([]domain.Profile, domain.ProfileCounts, error)
	SetRole(ctx context.Context, id, role string) error
}

type PromptSettings interface {
	Prompt(ctx context.Context, userID string) (settings.Prompt, error)
	SetPrompt(ctx context.Context, userID, prompt string) (settings.Prompt, error)
	ResetPrompt(ctx context.Context, userID string) (settings.Prompt, error)
}

type App struct {
	Auth       Authenticator
	Workspaces Workspaces
	Profiles   ProfileAdmin
	Settings   PromptSettings
	// Ready reports backing-store health; nil means always ready.
	Ready       func(ctx context.Context) error
	Upgrader    websocket.Upgrader
	LoadTimeout time.Duration
	Logger      zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	middleware.WriteError(w, status, code, message)
}

// fail translates err into the HTTP error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Msg("request failed")
		if code == "internal" {
			message = http.StatusText(status)
		}
	}
	a.error(w, status, code, message)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, domain.ErrJobInProgress):
		return http.StatusConflict, "job_in_progress"
	case errors.Is(err, domain.ErrInvalidJob):
		return http.StatusUnprocessableEntity, "invalid_job"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, "validation_failed"
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrGeneration):
		return http.StatusBadGateway, "generation_failed"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "persistence_failed"
	case errors.Is(err, domain.ErrDataLoad):
		return http.StatusInternalServerError, "data_load_failed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// workspace returns the caller's workspace, loading it on first use. The
// load outlives the request so a dropped connection does not leave the
// lists empty.
func (a *App) workspace(r *http.Request) *workspace.Workspace {
	ws := a.Workspaces.Get(middleware.UserIDFromContext(r.Context()))
	timeout := a.LoadTimeout
	if timeout <= 0 {
		timeout = defaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeout)
	defer cancel()
	ws.EnsureLoaded(ctx)
	return ws
}

func (a *App) attachment(w http.ResponseWriter, name, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
