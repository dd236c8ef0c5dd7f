package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active WebSocket connections and broadcasts engine updates
// (risk scores, SLA sweeps, predictions) to dashboard clients
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Outbound messages to fan out
	broadcast chan interface{}

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan interface{}, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (%s), %d total",
				client.UserID, client.UserRole, h.GetClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s, %d remaining",
					client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			payload, err := json.Marshal(data)
			if err != nil {
				log.Printf("❌ Failed to marshal broadcast message: %v", err)
				continue
			}

			h.mu.RLock()
			for userID, client := range h.clients {
				select {
				case client.send <- payload:
				default:
					log.Printf("⚠️ Client buffer full, skipping: %s", userID)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastAll queues a message for every connected client
func (h *Hub) BroadcastAll(data interface{}) {
	select {
	case h.broadcast <- data:
	default:
		log.Println("⚠️ Broadcast queue full, dropping message")
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
