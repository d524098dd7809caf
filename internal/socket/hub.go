// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gorilla/websocket"
)

// Event is the wire format pushed to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	sendBuffer   = 32
	pingPeriod   = 50 * time.Second
	writeTimeout = 10 * time.Second
)

// client owns every write to its connection. gorilla/websocket allows only
// one concurrent writer, so broadcasts queue on the send channel and a
// single goroutine drains it, pings included.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.WithError(err).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}

// Hub manages WebSocket clients grouped into rooms. Each connection joins
// its user room ("user:<id>") and its branch room ("branch:<id>").
type Hub struct {
	rooms   map[string]map[*client]struct{}
	clients map[*websocket.Conn]*client
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*client]struct{}),
		clients: make(map[*websocket.Conn]*client),
	}
}

// UserRoom and BranchRoom build the room keys.
func UserRoom(userID string) string     { return "user:" + userID }
func BranchRoom(branchID string) string { return "branch:" + branchID }

func (h *Hub) add(c *client, rooms ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.conn] = c
	for _, room := range rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*client]struct{})
		}
		h.rooms[room][c] = struct{}{}
	}
}

// Register joins a connection to the given rooms and starts its writer.
func (h *Hub) Register(conn *websocket.Conn, rooms ...string) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.add(c, rooms...)
	go c.writeLoop()
	log.WithField("rooms", rooms).Debug("WebSocket client registered")
}

// Unregister removes a connection from every room it joined and stops its
// writer. Safe to call for a connection that was never registered.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	for room, members := range h.rooms {
		if _, ok := members[c]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	// Closed under the lock, so no broadcast can race the close.
	close(c.send)
}

// Broadcast queues an event for every connection in a room. A missing room
// (everyone offline) is not an error; a client whose queue is full has the
// event dropped rather than blocking the caller.
func (h *Hub) Broadcast(room string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).Error("failed to marshal websocket event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			log.WithField("room", room).Warn("websocket send queue full, event dropped")
		}
	}
}

// SendToUser pushes an event to one user's room.
func (h *Hub) SendToUser(userID string, event Event) {
	h.Broadcast(UserRoom(userID), event)
}

// SendToBranch pushes an event to everyone connected for a branch.
func (h *Hub) SendToBranch(branchID string, event Event) {
	h.Broadcast(BranchRoom(branchID), event)
}
