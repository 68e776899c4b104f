package websocket

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

const publishBuffer = 256

type outbound struct {
	userID  string
	client  *Client // set for replies to a single connection
	message []byte
}

// Hub maintains the set of active clients and routes note events to the
// connections of the user who owns the note.
type Hub struct {
	// Clients grouped by the user they authenticated as.
	clients map[string]map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Messages addressed to one user.
	publish chan outbound

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan outbound, publishBuffer),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]bool)
			}
			h.clients[client.UserID][client] = true
			log.Info().Str("user_id", client.UserID).Int("user_clients", len(h.clients[client.UserID])).Msg("Client connected")
		case client := <-h.unregister:
			if h.remove(client) {
				log.Info().Str("user_id", client.UserID).Msg("Client disconnected")
			}
		case msg := <-h.publish:
			if msg.client != nil {
				if h.clients[msg.client.UserID][msg.client] {
					h.deliver(msg.client, msg.message)
				}
				continue
			}
			for client := range h.clients[msg.userID] {
				h.deliver(client, msg.message)
			}
		case <-h.done:
			for _, set := range h.clients {
				for client := range set {
					h.remove(client)
				}
			}
			return
		}
	}
}

// Stop terminates Run and closes every client's send channel.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Add registers client with the hub. It reports false once the hub is stopped.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Remove unregisters client. It is a no-op for unknown clients.
func (h *Hub) Remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues a note event for userID's connections. It never blocks;
// when the queue is full the event is dropped.
func (h *Hub) Publish(userID, action string, payload interface{}) {
	raw, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return
	}

	h.enqueue(outbound{userID: userID, message: raw})
}

// Reply queues a message for a single connection.
func (h *Hub) Reply(client *Client, message []byte) {
	h.enqueue(outbound{userID: client.UserID, client: client, message: message})
}

func (h *Hub) enqueue(msg outbound) {
	select {
	case h.publish <- msg:
	default:
		log.Warn().Str("user_id", msg.userID).Msg("Websocket publish queue full, dropping message")
	}
}

// deliver hands message to client, dropping clients that fall behind.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.remove(client)
	}
}

func (h *Hub) remove(client *Client) bool {
	set, ok := h.clients[client.UserID]
	if !ok || !set[client] {
		return false
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.UserID)
	}
	close(client.Send)
	return true
}
