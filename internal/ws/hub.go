package ws

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

const (
	TypeRowAdded       = "row_added"
	TypeRowUpdated     = "row_updated"
	TypePresenceUpdate = "presence_update"
)

type WsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans row change events out to every connected browser. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Publish queues an event for every client. It never blocks: the event is
// dropped if the broadcast queue is full.
func (h *Hub) Publish(eventType string, payload any) {
	msg, err := encodeMessage(eventType, payload)
	if err != nil {
		h.logger.Error("failed to encode hub message", zap.String("type", eventType), zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		h.logger.Warn("hub broadcast queue full, dropping event", zap.String("type", eventType))
	}
}

// Join registers c with the hub. It returns false if the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters c. It is a no-op once the hub has stopped.
func (h *Hub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func encodeMessage(eventType string, payload any) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(WsMessage{Type: eventType, Payload: payloadBytes})
}

func (h *Hub) broadcastPresence() {
	msg, err := encodeMessage(TypePresenceUpdate, map[string]int{"clients": len(h.clients)})
	if err != nil {
		return
	}
	h.send(msg)
}

func (h *Hub) send(msg []byte) {
	for client := range h.clients {
		select {
		case client.Send <- msg:
		default:
			h.logger.Warn("dropping slow websocket client", zap.String("client", client.ID))
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return

		case client := <-h.Register:
			h.clients[client] = true
			h.logger.Debug("websocket client registered", zap.String("client", client.ID), zap.Int("clients", len(h.clients)))
			h.broadcastPresence()

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("websocket client left", zap.String("client", client.ID), zap.Int("clients", len(h.clients)))
				h.broadcastPresence()
			}

		case msg := <-h.Broadcast:
			h.send(msg)
		}
	}
}
