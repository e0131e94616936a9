// Package stream pushes session events to websocket clients.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/wellnest/companion/internal/session"
)

const (
	writeTimeout   = 5 * time.Second
	eventBufferLen = 64
)

// WebSocketHandler streams the events of one session.
type WebSocketHandler struct {
	s             *session.Session
	allowedOrigin string
	isDev         bool
	logger        *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler.
func NewWebSocketHandler(s *session.Session, allowedOrigin string, isDev bool, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		s:             s,
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
		logger:        logger.With("component", "stream"),
	}
}

// wsMessage is a client control message.
type wsMessage struct {
	Type string `json:"type"`
}

// snapshotMessage is the first message on every connection.
type snapshotMessage struct {
	Type    string       `json:"type"`
	Session session.View `json:"session"`
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("WebSocket connection request", "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		http.Error(w, "origin not allowed", http.StatusForbidden)
		return
	}

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.logger.Error("Failed to accept WebSocket", "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "stream ended"); closeErr != nil {
			h.logger.Debug("Failed to close websocket", "error", closeErr)
		}
	}()

	events, unsubscribe := h.s.Subscribe(eventBufferLen)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := h.writeJSON(ctx, ws, snapshotMessage{Type: "snapshot", Session: h.s.View()}); err != nil {
		h.logger.Debug("Failed to send snapshot", "error", err)
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)

	// Input loop: control messages from the client.
	go func() {
		defer wg.Done()
		defer cancel()
		h.inputLoop(ctx, ws)
	}()

	// Output loop: session events to the client.
	go func() {
		defer wg.Done()
		defer cancel()
		h.outputLoop(ctx, ws, events)
	}()

	wg.Wait()
	h.logger.Info("Event stream ended")
}

func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	h.logger.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

func (h *WebSocketHandler) inputLoop(ctx context.Context, ws *websocket.Conn) {
	for {
		_, message, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || ctx.Err() != nil {
				h.logger.Debug("WebSocket closed by client")
			} else {
				h.logger.Warn("WebSocket read error", "error", err)
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case "ping":
			if err := h.writeJSON(ctx, ws, map[string]string{"type": "pong"}); err != nil {
				h.logger.Debug("Failed to send pong", "error", err)
			}
		case "snapshot":
			if err := h.writeJSON(ctx, ws, snapshotMessage{Type: "snapshot", Session: h.s.View()}); err != nil {
				h.logger.Debug("Failed to send snapshot", "error", err)
			}
		case "close":
			return
		}
	}
}

func (h *WebSocketHandler) outputLoop(ctx context.Context, ws *websocket.Conn, events <-chan session.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.writeJSON(ctx, ws, ev); err != nil {
				h.logger.Debug("WebSocket write error", "error", err)
				return
			}
		}
	}
}

func (h *WebSocketHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, data)
}
