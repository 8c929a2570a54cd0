// internal/app/system/realtime/hub.go
// Package realtime pushes discussion updates to websocket subscribers.
// Subscribers join a room keyed by company and channel; publishers never
// block on slow clients.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Event types pushed to subscribers.
const (
	EventMessageCreated  = "message.created"
	EventMessageDeleted  = "message.deleted"
	EventReplyCreated    = "reply.created"
	EventReactionToggled = "reaction.toggled"
)

// Room identifies one company discussion channel.
type Room struct {
	CompanyID primitive.ObjectID
	Channel   string
}

// Event is the JSON frame written to subscribers.
type Event struct {
	Type      string `json:"type"`
	CompanyID string `json:"company_id"`
	Channel   string `json:"channel"`
	Data      any    `json:"data"`
}

type envelope struct {
	room    Room
	payload []byte
}

// Hub tracks subscribers per room and fans out published events.
type Hub struct {
	rooms map[Room]map[*Client]struct{}
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	publish    chan envelope
	done       chan struct{}

	log *zap.Logger
}

// NewHub creates a hub. Call Run to start it.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:      make(map[Room]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		publish:    make(chan envelope, 256),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled. All
// remaining clients are disconnected on return.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.publish:
			h.broadcast(env)
		}
	}
}

// Publish queues ev for every subscriber of room. Events are dropped, with
// a warning, when the queue is full or the hub has stopped.
func (h *Hub) Publish(room Room, eventType string, data any) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{
		Type:      eventType,
		CompanyID: room.CompanyID.Hex(),
		Channel:   room.Channel,
		Data:      data,
	})
	if err != nil {
		h.log.Error("marshal realtime event failed", zap.Error(err), zap.String("type", eventType))
		return
	}
	select {
	case h.publish <- envelope{room: room, payload: payload}:
	case <-h.done:
	default:
		h.log.Warn("realtime queue full, event dropped",
			zap.String("type", eventType),
			zap.String("company_id", room.CompanyID.Hex()),
			zap.String("channel", room.Channel))
	}
}

// Subscribers returns the number of clients in room.
func (h *Hub) Subscribers(room Room) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.room]
	if !ok {
		set = make(map[*Client]struct{})
		h.rooms[c.room] = set
	}
	set[c] = struct{}{}
	h.log.Debug("realtime client joined",
		zap.String("company_id", c.room.CompanyID.Hex()),
		zap.String("channel", c.room.Channel),
		zap.String("user_id", c.userID.Hex()))
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[c.room]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.rooms, c.room)
	}
}

func (h *Hub) broadcast(env envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.rooms[env.room]
	for c := range set {
		select {
		case c.send <- env.payload:
		default:
			// Slow consumer; drop it rather than stall the room.
			delete(set, c)
			close(c.send)
		}
	}
	if len(set) == 0 {
		delete(h.rooms, env.room)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, set := range h.rooms {
		for c := range set {
			close(c.send)
		}
		delete(h.rooms, room)
	}
}

// join hands c to the hub. It reports false when the hub is not running.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave is safe to call after the hub stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
