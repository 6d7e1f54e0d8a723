package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dukerupert/foodmenu/internal/model"
)

// Message is a change notification pushed to every open dashboard. Type is
// "food_<action>". Single-item changes carry Food; loads and snapshots
// carry the whole list in Foods.
type Message struct {
	Type   string       `json:"type"`
	Action string       `json:"action"`
	ID     int64        `json:"id,omitempty"`
	Food   *model.Food  `json:"food,omitempty"`
	Foods  []model.Food `json:"foods,omitempty"`
}

// FoodMessage reports a change to one item.
func FoodMessage(action string, f model.Food) Message {
	return Message{Type: "food_" + action, Action: action, ID: f.ID, Food: &f}
}

// DeletedMessage reports that id left the list.
func DeletedMessage(id int64) Message {
	return Message{Type: "food_deleted", Action: "deleted", ID: id}
}

// ListMessage carries the full list, for loads and connection greetings.
func ListMessage(action string, foods []model.Food) Message {
	return Message{Type: "food_" + action, Action: action, Foods: foods}
}

// Stats is a point-in-time view of the hub.
type Stats struct {
	Clients int   `json:"clients"`
	Dropped int64 `json:"dropped"`
}

// Hub fans messages out to connected dashboards. After Close it refuses new
// clients and ignores broadcasts.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
	dropped atomic.Int64
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds c. It returns false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.logger.Debug("dashboard connected", "clients", len(h.clients))
	return true
}

// Unregister removes c and closes its send channel. Safe to call twice and
// after Close.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Debug("dashboard disconnected", "clients", len(h.clients))
}

// Broadcast queues msg for every client and returns how many accepted it.
// A client whose buffer is full misses the message and is counted in
// Stats.Dropped.
func (h *Hub) Broadcast(msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "type", msg.Type, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	queued := 0
	for c := range h.clients {
		if c.enqueue(data) {
			queued++
			continue
		}
		h.dropped.Add(1)
		h.logger.Warn("dropping message for slow dashboard", "type", msg.Type)
	}
	return queued
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Stats{Clients: len(h.clients), Dropped: h.dropped.Load()}
}

func (h *Hub) ClientCount() int {
	return h.Stats().Clients
}

// Close disconnects every client. Their write pumps see the closed channel
// and close the connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
