package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Events emitted to a user's private room.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskDeleted = "task_deleted"

	eventJoinRoom = "join_user_room"
)

// Message is the wire format in both directions. Clients announce
// themselves with {"event":"join_user_room","user_id":...}; the server
// pushes task events with a data payload.
type Message struct {
	Event  string      `json:"event"`
	UserID string      `json:"user_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// wsConn is the subset of *websocket.Conn the hub writes to; narrowed so
// tests can register fakes.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client serializes writes: the underlying connection allows only one
// concurrent writer.
type client struct {
	conn wsConn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub is the process-wide registry of realtime connections, keyed by user
// id. A task mutation publishes to exactly the owner's room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uuid.UUID]map[*client]struct{})}
}

func (h *Hub) join(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[userID]
	if room == nil {
		room = make(map[*client]struct{})
		h.rooms[userID] = room
	}
	room[cl] = struct{}{}
}

func (h *Hub) leave(userID uuid.UUID, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[userID]
	if room == nil {
		return
	}
	delete(room, cl)
	if len(room) == 0 {
		delete(h.rooms, userID)
	}
}

// RoomSize returns the number of live connections for a user.
func (h *Hub) RoomSize(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// Publish sends an event to every connection in the owner's room, and only
// there. A failed write drops that one connection.
func (h *Hub) Publish(userID uuid.UUID, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		slog.Error("failed to marshal realtime event", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[userID]))
	for cl := range h.rooms[userID] {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	for _, cl := range clients {
		if err := cl.write(payload); err != nil {
			slog.Warn("realtime write failed, dropping connection", "user_id", userID, "error", err)
			h.leave(userID, cl)
			cl.conn.Close()
		}
	}
}

// Handler upgrades the connection and serves it until it closes.
func (h *Hub) Handler() func(*websocket.Conn) {
	return h.serve
}

func (h *Hub) serve(conn *websocket.Conn) {
	cl := &client{conn: conn}
	var joined uuid.UUID

	defer func() {
		if joined != uuid.Nil {
			h.leave(joined, cl)
		}
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}

		if msg.Event == eventJoinRoom && joined == uuid.Nil {
			userID, err := uuid.Parse(msg.UserID)
			if err != nil {
				continue
			}
			joined = userID
			h.join(userID, cl)
			slog.Info("realtime client joined", "user_id", userID)
		}
	}
}
