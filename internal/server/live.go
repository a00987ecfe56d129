package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/DENFSA/CharkLi/internal/logger"
	"github.com/DENFSA/CharkLi/internal/sheet"
	"github.com/DENFSA/CharkLi/internal/text"
)

const liveWriteTimeout = 10 * time.Second

// handleLive upgrades to a socket that owns one editing session. Edits are
// applied strictly in arrival order and every edit is answered with one
// update.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	uid := userID(r.Context())
	pathID := r.PathValue("id")

	snap, err := s.sheets.Load(r.Context(), uid, pathID)
	if err != nil {
		if errors.Is(err, sheet.ErrNotFound) {
			http.Error(w, text.Get("errors.not_found"), http.StatusNotFound)
			return
		}
		logger.Error("Failed to load live sheet", "error", err, "account_id", uid, "path_id", pathID)
		http.Error(w, text.Get("errors.internal"), http.StatusInternalServerError)
		return
	}

	ip := clientIP(r)
	if !s.sockets.Acquire(ip) {
		logger.Warning("Live sheet rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip)
		http.Error(w, text.Get("errors.too_many_connections"), http.StatusTooManyRequests)
		return
	}
	defer s.sockets.Release(ip)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		logger.Debug("Live sheet upgrade failed", "error", err, "client_ip", ip)
		return
	}
	defer conn.Close()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-s.closing:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second))
			conn.Close()
		case <-finished:
		}
	}()

	if limit := s.cfg.WebSocket.MaxMessageSize; limit > 0 {
		conn.SetReadLimit(limit)
	}

	logger.Debug("Live sheet opened", "account_id", uid, "path_id", pathID, "client_ip", ip)
	edits := serveLive(conn, sheet.NewLive(snap))
	logger.Debug("Live sheet closed", "account_id", uid, "path_id", pathID, "edits", edits)
}

// serveLive runs the read loop until the peer goes away and returns the
// number of edits applied.
func serveLive(conn *websocket.Conn, live *sheet.Live) int {
	if err := writeUpdate(conn, live.Refresh()); err != nil {
		return 0
	}

	applied := 0
	for {
		kind, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				logger.Debug("Live sheet read failed", "error", err)
			}
			return applied
		}
		if kind != websocket.TextMessage {
			continue
		}

		var edit sheet.Edit
		if err := json.Unmarshal(msg, &edit); err != nil {
			logger.Debug("Ignoring malformed edit", "error", err)
			continue
		}

		if err := writeUpdate(conn, live.Apply(edit)); err != nil {
			return applied
		}
		applied++
	}
}

func writeUpdate(conn *websocket.Conn, u sheet.Update) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(u)
}
