package nav

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Frame types of the history wire protocol. The browser shim sends
// "intent" frames for link clicks and popstate; the server pushes
// nav frames to move the browser's history stack.
const (
	frameIntent     = "INTENT"
	frameNavPush    = "NAV_PUSH"
	frameNavReplace = "NAV_REPLACE"
	frameNavBack    = "NAV_BACK"
)

// frame is one message of the history protocol.
type frame struct {
	Type  string `json:"type"`
	Path  string `json:"path,omitempty"`
	Title string `json:"title,omitempty"`
}

// WSHistoryConfig configures a WSHistory.
type WSHistoryConfig struct {
	// ReadTimeout bounds each read from the shim.
	ReadTimeout time.Duration

	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration

	// IntentBuffer is the capacity of the intent channel.
	IntentBuffer int

	// Logger receives connection diagnostics.
	Logger *slog.Logger
}

// DefaultWSHistoryConfig returns the default configuration.
func DefaultWSHistoryConfig() WSHistoryConfig {
	return WSHistoryConfig{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		IntentBuffer: 16,
		Logger:       slog.Default(),
	}
}

// WSHistory is a History implementation backed by a WebSocket connection
// to a browser shim. The shim reports the current location and navigation
// intents; Push, Replace, and Back drive the browser's history stack.
type WSHistory struct {
	conn    *websocket.Conn
	config  WSHistoryConfig
	logger  *slog.Logger
	intents chan string

	mu      sync.Mutex
	current string

	writeMu sync.Mutex
}

// NewWSHistory wraps an upgraded connection. The initial path is what the
// shim reported at handshake time (usually location.pathname + search).
func NewWSHistory(conn *websocket.Conn, initialPath string, config WSHistoryConfig) *WSHistory {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.IntentBuffer <= 0 {
		config.IntentBuffer = 16
	}
	return &WSHistory{
		conn:    conn,
		config:  config,
		logger:  config.Logger,
		intents: make(chan string, config.IntentBuffer),
		current: initialPath,
	}
}

// Current returns the last location reported by the shim.
func (h *WSHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Push appends a browser history entry.
func (h *WSHistory) Push(path, title string) error {
	h.setCurrent(path)
	return h.write(frame{Type: frameNavPush, Path: path, Title: title})
}

// Replace replaces the current browser history entry.
func (h *WSHistory) Replace(path, title string) error {
	h.setCurrent(path)
	return h.write(frame{Type: frameNavReplace, Path: path, Title: title})
}

// Back moves the browser one history entry back.
func (h *WSHistory) Back() error {
	return h.write(frame{Type: frameNavBack})
}

// Intents emits a path for every intent frame the shim sends.
func (h *WSHistory) Intents() <-chan string {
	return h.intents
}

// ReadLoop reads frames until the connection closes or ctx is cancelled.
// It closes the intent channel on return, which ends a Listen loop
// consuming this history.
func (h *WSHistory) ReadLoop(ctx context.Context) error {
	defer close(h.intents)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		h.conn.SetReadDeadline(time.Now().Add(h.config.ReadTimeout))

		_, msg, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger.Error("history read error", "error", err)
				return err
			}
			return nil
		}

		var f frame
		if err := json.Unmarshal(msg, &f); err != nil {
			h.logger.Error("history frame decode error", "error", err)
			continue
		}

		switch f.Type {
		case frameIntent:
			h.setCurrent(f.Path)
			select {
			case h.intents <- f.Path:
			default:
				h.logger.Warn("intent dropped, buffer full", "path", f.Path)
			}
		default:
			h.logger.Warn("unknown history frame", "type", f.Type)
		}
	}
}

// Close closes the underlying connection.
func (h *WSHistory) Close() error {
	return h.conn.Close()
}

func (h *WSHistory) setCurrent(path string) {
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
}

func (h *WSHistory) write(f frame) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	h.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
	return h.conn.WriteMessage(websocket.TextMessage, payload)
}
