// Package ws is the websocket implementation of the transport
// boundary: a hub that tracks live connections and their broadcast
// groups, plus the HTTP handler that feeds client calls into the
// coordinators.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/model"
	"github.com/Yehor-Organization/ProjectDawn-sub000/internal/transport"
)

const defaultWriteTimeout = 10 * time.Second

// client wraps one websocket connection. The mutex serializes writes;
// gorilla connections allow at most one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Hub tracks live websocket connections and their group memberships,
// and delivers events to them. Delivery is best-effort: a connection
// that fails a write gets closed and its read loop tears the session
// down, but the failure never blocks delivery to other members.
type Hub struct {
	logger       *slog.Logger
	writeTimeout time.Duration

	mu      sync.RWMutex
	clients map[model.ConnectionID]*client
	groups  map[string]map[model.ConnectionID]struct{}
}

// Ensure Hub implements Dispatcher
var _ transport.Dispatcher = (*Hub)(nil)

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:       logger.With(slog.String("component", "ws")),
		writeTimeout: defaultWriteTimeout,
		clients:      make(map[model.ConnectionID]*client),
		groups:       make(map[string]map[model.ConnectionID]struct{}),
	}
}

// Bind associates a connection id with an upgraded websocket
func (h *Hub) Bind(connID model.ConnectionID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[connID] = &client{conn: conn}
}

// Unbind drops a connection from the hub and every group it belongs
// to, and closes the socket. Unbinding an unknown connection is a
// no-op.
func (h *Hub) Unbind(connID model.ConnectionID) {
	h.mu.Lock()
	c, ok := h.clients[connID]
	delete(h.clients, connID)
	for group, members := range h.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
	}
}

// AddToGroup joins a connection to a broadcast group
func (h *Hub) AddToGroup(group string, connID model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.groups[group] == nil {
		h.groups[group] = make(map[model.ConnectionID]struct{})
	}
	h.groups[group][connID] = struct{}{}
}

// RemoveFromGroup removes a connection from a group
func (h *Hub) RemoveFromGroup(group string, connID model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.groups[group]
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

// SendToConnection delivers an event to a single connection. Sending
// to an unknown connection is a silent no-op; the session it belonged
// to is already gone.
func (h *Hub) SendToConnection(ctx context.Context, connID model.ConnectionID, event transport.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	c, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	return h.write(connID, c, data)
}

// SendToGroup delivers an event to every member of a group
func (h *Hub) SendToGroup(ctx context.Context, group string, event transport.Event) error {
	return h.sendToGroup(group, "", event)
}

// SendToGroupExcept delivers an event to every group member except the
// given connection
func (h *Hub) SendToGroupExcept(ctx context.Context, group string, except model.ConnectionID, event transport.Event) error {
	return h.sendToGroup(group, except, event)
}

func (h *Hub) sendToGroup(group string, except model.ConnectionID, event transport.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// Snapshot recipients so a slow write never holds the hub lock.
	h.mu.RLock()
	recipients := make(map[model.ConnectionID]*client, len(h.groups[group]))
	for connID := range h.groups[group] {
		if connID == except {
			continue
		}
		if c, ok := h.clients[connID]; ok {
			recipients[connID] = c
		}
	}
	h.mu.RUnlock()

	for connID, c := range recipients {
		// Per-connection failures are handled in write; one bad member
		// must not stop the rest of the group.
		_ = h.write(connID, c, data)
	}
	return nil
}

// write delivers one frame under the connection's write lock. A failed
// write closes the socket; the read loop observes the close and runs
// the normal disconnect path.
func (h *Hub) write(connID model.ConnectionID, c *client, data []byte) error {
	c.mu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	err := c.conn.WriteMessage(websocket.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		h.logger.Warn("send failed, closing connection",
			slog.String("connection_id", string(connID)),
			slog.String("error", err.Error()))
		_ = c.conn.Close()
	}
	return err
}

// InGroup reports whether a connection is currently a group member
func (h *Hub) InGroup(group string, connID model.ConnectionID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.groups[group][connID]
	return ok
}

// Len returns the number of bound connections
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
