package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rollscan/rollscan/internal/pipeline"
)

// progressEvent is pushed to WebSocket subscribers during extraction.
type progressEvent struct {
	Stage string `json:"stage"` // start, page, done
	Done  int    `json:"done"`
	Total int    `json:"total"`
}

// progressHub fans progress events out to connected WebSocket clients.
// Slow clients are dropped rather than buffered indefinitely.
type progressHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func newProgressHub() *progressHub {
	return &progressHub{clients: make(map[*websocket.Conn]struct{})}
}

func (h *progressHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *progressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	_ = conn.Close()
}

func (h *progressHub) broadcast(ev progressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(ev); err != nil {
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

func (h *progressHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]struct{})
}

// OnStart implements pipeline.ProgressCallback.
func (h *progressHub) OnStart(total int) {
	h.broadcast(progressEvent{Stage: "start", Total: total})
}

// OnProgress implements pipeline.ProgressCallback.
func (h *progressHub) OnProgress(done, total int) {
	h.broadcast(progressEvent{Stage: "page", Done: done, Total: total})
}

// OnComplete implements pipeline.ProgressCallback.
func (h *progressHub) OnComplete() {}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Progress is broadcast-only and carries no sensitive data.
	CheckOrigin: func(*http.Request) bool { return true },
}

// progressHandler upgrades the connection and keeps it registered until
// the client disconnects.
func (s *Server) progressHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	s.progress.add(conn)
	defer s.progress.remove(conn)

	// Drain client frames; exit on close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Progress returns the hub so the pipeline builder can attach it as a
// progress callback.
func (s *Server) Progress() pipeline.ProgressCallback { return s.progress }
