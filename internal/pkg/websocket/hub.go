package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types published to rooms
const (
	EventPostCreated   = "post.created"
	EventPostUpdated   = "post.updated"
	EventPostDeleted   = "post.deleted"
	EventMessageNew    = "message.new"
	EventMessageRead   = "message.read"
	EventMessageDelete = "message.deleted"
)

// ClassRoom is the room of a class chat feed
func ClassRoom(classID string) string { return "class:" + classID }

// UserRoom is the private room of a single user
func UserRoom(userID string) string { return "user:" + userID }

// Event is a server-to-client notification sent over WebSocket
type Event struct {
	Type      string      `json:"type"`
	Room      string      `json:"room"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of active clients per room and fans events out to them
type Hub struct {
	// Registered clients organized by room
	clients map[string]map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	listenersMu sync.RWMutex
	listeners   []chan *Event

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for every client in room. It never blocks on slow clients
// and is a no-op once the hub has stopped.
func (h *Hub) Publish(room, eventType string, data interface{}) {
	event := &Event{Type: eventType, Room: room, Data: data, Timestamp: time.Now().UTC()}
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		h.logger.Warn().Str("room", room).Str("type", eventType).Msg("Broadcast queue full, dropping event")
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.room]; !ok {
		h.clients[client.room] = make(map[*Client]bool)
	}
	h.clients[client.room][client] = true

	h.logger.Info().
		Str("room", client.room).
		Str("userID", client.userID).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.room]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.room)
	}

	h.logger.Info().
		Str("room", client.room).
		Str("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) broadcastEvent(event *Event) {
	h.notifyListeners(event)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("room", event.Room).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[event.Room]
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Send buffer full; drop the slow client
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("room", event.Room).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Event broadcasted to room")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// ClientsCount returns the number of connected clients in a room
func (h *Hub) ClientsCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[room])
}

// AddListener registers a channel that receives every published event
func (h *Hub) AddListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, listener)
}

// RemoveListener unregisters a listener added with AddListener
func (h *Hub) RemoveListener(listener chan *Event) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.listeners {
		if l == listener {
			h.listeners[i] = h.listeners[len(h.listeners)-1]
			h.listeners = h.listeners[:len(h.listeners)-1]
			break
		}
	}
}

func (h *Hub) notifyListeners(event *Event) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.listeners {
		select {
		case listener <- event:
		default:
			h.logger.Warn().Msg("Skipped slow event listener")
		}
	}
}
