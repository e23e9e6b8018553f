package websocket

import (
	"context"
	"encoding/json"

	"github.com/isdelr/devconnector-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns when ctx is
// cancelled, closing every client's Send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer.
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Join registers client unless the hub has stopped.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters client unless the hub has stopped.
func (h *Hub) Leave(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent queues an audit event for every connected client. The event
// is dropped if the broadcast queue is full.
func (h *Hub) BroadcastEvent(event models.Event) {
	msg, err := json.Marshal(Message{Action: ActionEvent, Payload: event})
	if err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to encode event for broadcast")
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		log.Warn().Str("event_id", event.ID).Msg("Broadcast queue full, dropping event")
	}
}
