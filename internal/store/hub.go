package store

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// insertEvent mirrors the feed wire shape the sync client decodes.
type insertEvent struct {
	Type   string       `json:"type"`
	Stroke state.Stroke `json:"stroke"`
}

// Hub tracks the active feed subscribers and fans insert events out to
// them. Every subscriber gets every insert, including the one who wrote the
// stroke; dedup is the receiving board's job.
type Hub struct {
	mu   sync.Mutex
	subs map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[*websocket.Conn]bool),
	}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[conn] = true
	log.Printf("[store] subscriber connected: %s", conn.RemoteAddr())
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[conn] {
		delete(h.subs, conn)
		log.Printf("[store] subscriber disconnected: %s", conn.RemoteAddr())
	}
}

// BroadcastInsert pushes one insert event to every subscriber. A subscriber
// that fails to accept the write is dropped.
func (h *Hub) BroadcastInsert(s state.Stroke) {
	ev := insertEvent{Type: "insert", Stroke: s}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs {
		if err := conn.WriteJSON(ev); err != nil {
			log.Printf("[store] dropping subscriber %s: %v", conn.RemoteAddr(), err)
			conn.Close()
			delete(h.subs, conn)
		}
	}
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subs {
		conn.Close()
		delete(h.subs, conn)
	}
}
