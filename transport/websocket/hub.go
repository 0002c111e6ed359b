package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 32
	writeWait      = 10 * time.Second
)

// client is one registered connection with its outbound queue. All
// writes to the socket happen on the write pump, so broadcasts never
// block a coordinator transition on network I/O.
type client struct {
	id   string
	conn *websocket.Conn
	send chan *Message
	once sync.Once
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan *Message, sendBufferSize),
	}
}

func (that *client) close() {
	that.once.Do(func() {
		close(that.send)
	})
}

// writePump drains the outbound queue onto the socket until the queue
// closes or a write fails.
func (that *client) writePump(logger *slog.Logger) {
	log := logger.With("method", "writePump", "connID", that.id)

	for msg := range that.send {
		if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Error("failed to set write deadline", "error", err)
			return
		}

		if err := that.conn.WriteJSON(msg); err != nil {
			log.Debug("failed to write message", "error", err)
			return
		}
	}
}

// Hub implements the abstract channel contract: room membership plus
// ordered broadcast and unicast delivery. Per-client FIFO queues
// preserve the order broadcasts were issued in.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
	rooms   map[string]map[string]struct{}
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With("component", "hub"),

		clients: make(map[string]*client),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (that *Hub) register(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.clients[c.id] = c
}

// unregister drops the connection and any room membership it still
// holds, and closes its outbound queue.
func (that *Hub) unregister(connID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	c, ok := that.clients[connID]
	if !ok {
		return
	}

	delete(that.clients, connID)

	for roomID, members := range that.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(that.rooms, roomID)
		}
	}

	c.close()
}

func (that *Hub) Subscribe(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		that.rooms[roomID] = members
	}

	members[connID] = struct{}{}
}

func (that *Hub) Unsubscribe(connID, roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	members, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(members, connID)
	if len(members) == 0 {
		delete(that.rooms, roomID)
	}
}

// Broadcast enqueues the payload for every member of the room.
func (that *Hub) Broadcast(roomID, action string, payload any) {
	log := that.logger.With("method", "Broadcast", "roomID", roomID)

	msg, err := newMessage(action, payload)
	if err != nil {
		log.Error("failed to build message", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	for connID := range that.rooms[roomID] {
		that.enqueue(connID, msg, log)
	}
}

// Unicast enqueues the payload for a single connection.
func (that *Hub) Unicast(connID, action string, payload any) {
	log := that.logger.With("method", "Unicast", "connID", connID)

	msg, err := newMessage(action, payload)
	if err != nil {
		log.Error("failed to build message", "action", action, "error", err)
		return
	}

	that.mu.RLock()
	defer that.mu.RUnlock()

	that.enqueue(connID, msg, log)
}

// enqueue hands the message to the client's write pump. A client that
// cannot keep up loses the message rather than stalling the room.
// Callers must hold at least the read lock.
func (that *Hub) enqueue(connID string, msg *Message, log *slog.Logger) {
	c, ok := that.clients[connID]
	if !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		log.Warn("send buffer full, dropping message", "connID", connID, "action", msg.Action)
	}
}
