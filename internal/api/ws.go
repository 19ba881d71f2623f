package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"parkspotter-admin/internal/metrics"
	"parkspotter-admin/internal/service"
)

const writeWait = 10 * time.Second

// Hub fans the live overview out to connected dashboards.
type Hub struct {
	upgrader websocket.Upgrader
	dash     *service.DashboardService

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub accepts websocket connections from origins; "*" allows any origin.
func NewHub(dash *service.DashboardService, origins []string) *Hub {
	h := &Hub{dash: dash, clients: make(map[*websocket.Conn]struct{})}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, "*") || slices.Contains(origins, origin)
		},
	}
	return h
}

// ServeOverview upgrades the connection and sends the current overview right away.
func (h *Hub) ServeOverview(w http.ResponseWriter, r *http.Request) {
	sess, ok := currentSession(w, r)
	if !ok {
		return
	}
	first := h.dash.Overview(r.Context(), sess)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", slog.Any("error", err))
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	if err := write(conn, first); err != nil {
		h.dropLocked(conn)
	}
	h.mu.Unlock()
	metrics.ActiveWebsockets.Set(float64(h.Clients()))

	go h.readPump(conn)
}

func write(c *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.SetWriteDeadline(time.Now().Add(writeWait))
	return c.WriteMessage(websocket.TextMessage, data)
}

func (h *Hub) dropLocked(c *websocket.Conn) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
}

func (h *Hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	h.dropLocked(c)
	n := len(h.clients)
	h.mu.Unlock()
	metrics.ActiveWebsockets.Set(float64(n))
}

// readPump discards client messages and unregisters the connection once it closes.
func (h *Hub) readPump(c *websocket.Conn) {
	defer h.remove(c)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("ws broadcast encode", slog.Any("error", err))
		return
	}
	h.mu.Lock()
	for c := range h.clients {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			h.dropLocked(c)
		}
	}
	n := len(h.clients)
	h.mu.Unlock()
	metrics.ActiveWebsockets.Set(float64(n))
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	for c := range h.clients {
		c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(time.Second))
		h.dropLocked(c)
	}
	h.mu.Unlock()
	metrics.ActiveWebsockets.Set(0)
}
