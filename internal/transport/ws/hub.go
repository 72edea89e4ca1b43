package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Server-initiated message types not raised by services
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections per agent. An agent may have several
// connections open (one per browser tab); broadcasts reach all of them.
type Hub struct {
	conns map[string]map[*Connection]bool // ownerID -> connections

	mu sync.RWMutex

	// Channels for coordination
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once

	logger *zap.Logger
}

// Connection represents a WebSocket connection
type Connection struct {
	OwnerID string
	Send    chan []byte
	Hub     *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	OwnerID string
	Message *Message
}

// NewHub creates a new WebSocket hub and starts its loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		logger:     logger,
	}
	go h.run()
	return h
}

// NewConnection creates a connection bound to this hub
func (h *Hub) NewConnection(ownerID string) *Connection {
	return &Connection{
		OwnerID: ownerID,
		Send:    make(chan []byte, 256),
		Hub:     h,
	}
}

func (h *Hub) run() {
	defer close(h.stopped)
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.OwnerID] == nil {
				h.conns[conn.OwnerID] = make(map[*Connection]bool)
			}
			h.conns[conn.OwnerID][conn] = true
			h.mu.Unlock()
			h.logger.Debug("agent connected", zap.String("owner", conn.OwnerID))

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.conns[conn.OwnerID]; ok && conns[conn] {
				delete(conns, conn)
				close(conn.Send)
				if len(conns) == 0 {
					delete(h.conns, conn.OwnerID)
				}
				h.logger.Debug("agent disconnected", zap.String("owner", conn.OwnerID))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			data, err := json.Marshal(msg.Message)
			if err != nil {
				h.logger.Warn("failed to encode message", zap.Error(err))
				continue
			}
			h.mu.RLock()
			for conn := range h.conns[msg.OwnerID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for owner, conns := range h.conns {
				for conn := range conns {
					close(conn.Send)
				}
				delete(h.conns, owner)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Register adds a connection and reports whether the hub took it.
// Once the hub is closed the connection's send channel is closed instead.
func (h *Hub) Register(conn *Connection) bool {
	select {
	case h.register <- conn:
		return true
	case <-h.done:
		close(conn.Send)
		return false
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Close stops the hub and closes every connection's send channel
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
	<-h.stopped
}

// ConnectionCount returns the number of open connections of an agent
func (h *Hub) ConnectionCount(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[ownerID])
}

// BroadcastToOwner sends a message to every connection of an agent (implements service.Broadcaster)
func (h *Hub) BroadcastToOwner(ownerID string, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("failed to encode payload", zap.String("type", msgType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- &BroadcastMessage{
		OwnerID: ownerID,
		Message: &Message{Type: MessageType(msgType), Payload: data},
	}:
	case <-h.done:
	}
}
