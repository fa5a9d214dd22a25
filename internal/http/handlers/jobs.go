package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"tailorpreview/internal/domain"
	"tailorpreview/internal/download"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type jobRequest struct {
	CustomerID   string   `json:"customerId"`
	GarmentIDs   []string `json:"garmentIds"`
	Instructions string   `json:"instructions"`
	UsePro       bool     `json:"usePro"`
}

// RunJob blocks until the job settles. The job is detached from the request
// so a client that disconnects can keep following it over the state stream.
func (a *App) RunJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.fail(w, r, err)
		return
	}
	ws := a.workspace(r)
	cfg, err := ws.ResolveJob(req.CustomerID, req.GarmentIDs, req.Instructions, req.UsePro)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	outcome, err := ws.RunJob(context.WithoutCancel(r.Context()), cfg)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, outcome)
}

func (a *App) JobState(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.workspace(r).Processing())
}

// JobStateStream pushes every processing state over a websocket, starting
// with the current one. Slow readers only see the latest state.
func (a *App) JobStateStream(w http.ResponseWriter, r *http.Request) {
	ws := a.workspace(r)
	conn, err := a.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("ws: upgrade failed")
		return
	}
	defer conn.Close()

	updates := make(chan domain.ProcessingState, 1)
	push := func(s domain.ProcessingState) {
		for {
			select {
			case updates <- s:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}
	unsubscribe := ws.WatchProgress(push)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					a.Logger.Debug().Err(err).Msg("ws: unexpected close")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case state := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(state); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (a *App) JobDownload(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.fail(w, r, fmt.Errorf("%w: download index must be a number", errBadRequest))
		return
	}
	entry, img, err := a.workspace(r).Downloads().Open(r.Context(), index)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, entry.Name, img.MIMEType, img.Data)
}

func (a *App) JobDownloadArchive(w http.ResponseWriter, r *http.Request) {
	data, err := a.workspace(r).Downloads().Archive(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, download.ArchiveFileName(time.Now()), "application/zip", data)
}
