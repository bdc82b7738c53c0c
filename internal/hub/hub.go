package hub

import (
	"log/slog"
	"sync"
)

const SendBufferSize = 256

// Hub maps connection ids to their outbound queues. It is the transport the
// game service writes through.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
}

type Client struct {
	ID   string
	Send chan []byte
}

func NewClient(id string) *Client {
	return &Client{
		ID:   id,
		Send: make(chan []byte, SendBufferSize),
	}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[client.ID]; ok && existing.Send != client.Send {
		slog.Warn("hub: connection registered twice, closing the old one", "conn_id", client.ID)
		close(existing.Send)
	}
	h.clients[client.ID] = client
	slog.Debug("hub: connection registered", "conn_id", client.ID, "connections", len(h.clients))
}

// Unregister removes the client and closes its queue. It reports whether the
// client was still registered.
func (h *Hub) Unregister(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[id]
	if !ok {
		return false
	}
	delete(h.clients, id)
	close(client.Send)
	slog.Debug("hub: connection unregistered", "conn_id", id, "connections", len(h.clients))
	return true
}

// Send queues data for one connection without blocking. A client whose queue
// is full is dropped; its writer then closes the socket.
func (h *Hub) Send(id string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[id]
	if !ok {
		return
	}

	select {
	case client.Send <- data:
	default:
		slog.Warn("hub: send queue full, dropping connection", "conn_id", id)
		delete(h.clients, id)
		close(client.Send)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
