package chat

// In-memory broadcast registry. A single goroutine owns the room map and all
// register/deregister/relay traffic flows through its channels, so relay can
// never race membership changes. Fan-out is best effort: a member whose
// outbound queue is full has the frame dropped, the rest of the room still
// receives it.

import (
	Logger "github.com/quillfeed/quillfeed-backend/utils/log"
)

// member is a live connection registered in a room. Session implements it;
// tests register lightweight fakes.
type member interface {
	// Room returns the key of the broadcast group this member belongs to.
	Room() string
	// QueueOut enqueues an outbound frame. It must not block; it reports
	// false when the frame was dropped.
	QueueOut(frame []byte) bool
	// ID identifies the member's author for logging.
	ID() string
}

type relayRequest struct {
	room  string
	frame []byte
}

type Hub struct {
	rooms map[string]map[member]bool

	join  chan member
	leave chan member
	relay chan relayRequest
	stop  chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: map[string]map[member]bool{},
		join:  make(chan member),
		leave: make(chan member),
		relay: make(chan relayRequest, 64),
		stop:  make(chan struct{}),
	}
}

// Run owns the registry until Stop is called. Must be started exactly once,
// before any connection is accepted.
func (h *Hub) Run() {
	for {
		select {
		case m := <-h.join:
			room := m.Room()
			if h.rooms[room] == nil {
				h.rooms[room] = map[member]bool{}
			}
			h.rooms[room][m] = true

		case m := <-h.leave:
			room := m.Room()
			if members, ok := h.rooms[room]; ok {
				delete(members, m)
				if len(members) == 0 {
					delete(h.rooms, room)
				}
			}

		case req := <-h.relay:
			for m := range h.rooms[req.room] {
				if !m.QueueOut(req.frame) {
					Logger.Log.Warnf("chat: dropped frame for %s in room %s, send queue full", m.ID(), req.room)
				}
			}

		case <-h.stop:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.stop)
}

// Register adds the member to its room's broadcast group. No-op after Stop.
func (h *Hub) Register(m member) {
	select {
	case h.join <- m:
	case <-h.stop:
	}
}

// Deregister removes the member. Safe to call for a member that was never
// registered, and a no-op after Stop so connections draining during shutdown
// don't hang.
func (h *Hub) Deregister(m member) {
	select {
	case h.leave <- m:
	case <-h.stop:
	}
}

// Relay fans the frame out to every member currently registered in the room,
// including the sender's own connection.
func (h *Hub) Relay(room string, frame []byte) {
	select {
	case h.relay <- relayRequest{room: room, frame: frame}:
	case <-h.stop:
	}
}
