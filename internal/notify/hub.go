// Realtime delivery of relationship events over websockets.

package notify

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YS8610/matcha-backend/internal/matching"
)

// WSMessage is the envelope pushed to websocket clients.
type WSMessage struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// PresenceStore records when a user connects or disconnects.
type PresenceStore interface {
	SetOnline(ctx context.Context, userID int64, online bool) error
}

// Hub maintains active websocket connections and routes events to
// them. It implements matching.NotificationSink; events for offline
// users are dropped, their state is recomputed from the store on the
// next read anyway.
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex

	register   chan *Client
	unregister chan *Client

	presence PresenceStore

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(presence PresenceStore) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		presence:   presence,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (h *Hub) Run() {
	defer h.cleanup()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-h.ctx.Done():
			return
		}
	}
}

// Notify implements matching.NotificationSink. Delivery is best effort;
// a full send buffer drops the client rather than blocking the caller.
func (h *Hub) Notify(ctx context.Context, event matching.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling event: %v", err)
		return
	}

	h.SendToUser(event.ToUserID, WSMessage{
		ID:        uuid.NewString(),
		Type:      string(event.Type),
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (h *Hub) SendToUser(userID int64, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	// The read lock is held across the send. Unregister closes the
	// send channel under the write lock, so releasing early would let
	// the close race the send and panic the process.
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	client, exists := h.clients[userID]
	if !exists {
		return
	}

	select {
	case client.send <- data:
	default:
		go h.disconnect(client)
	}
}

func (h *Hub) IsUserOnline(userID int64) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	_, exists := h.clients[userID]
	return exists
}

func (h *Hub) ActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

func (h *Hub) Shutdown() {
	h.cancel()
	h.wg.Wait()
}

func (h *Hub) disconnect(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	// Remove old connection for the same user
	if old, exists := h.clients[client.userID]; exists {
		old.Close()
	}
	h.clients[client.userID] = client

	h.setPresence(client.userID, true)
	log.Printf("User %d connected. Total clients: %d", client.userID, len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()

	if current, exists := h.clients[client.userID]; exists && current == client {
		client.Close()
		delete(h.clients, client.userID)

		h.setPresence(client.userID, false)
		log.Printf("User %d disconnected. Total clients: %d", client.userID, len(h.clients))
	}
}

func (h *Hub) setPresence(userID int64, online bool) {
	if h.presence == nil {
		return
	}
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.presence.SetOnline(h.ctx, userID, online); err != nil {
			log.Printf("Error updating presence for user %d: %v", userID, err)
		}
	}()
}

func (h *Hub) cleanup() {
	h.clientsMux.Lock()
	for _, client := range h.clients {
		client.Close()
	}
	h.clients = make(map[int64]*Client)
	h.clientsMux.Unlock()

	h.wg.Wait()
}
