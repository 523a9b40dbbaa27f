package sync

import (
	"log"
	gosync "sync"

	"github.com/gorilla/websocket"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// insertEvent is the wire shape of one feed notification.
type insertEvent struct {
	Type   string       `json:"type"`
	Stroke state.Stroke `json:"stroke"`
}

// Subscription is a live insert feed. Cancel tears it down; after Cancel
// returns no further callbacks are delivered.
type Subscription struct {
	conn *websocket.Conn
	done chan struct{}
	once gosync.Once
}

// Cancel closes the feed connection and silences the callback.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// SubscribeInserts opens the long-lived feed and invokes onInsert once per
// remote insert event with a decoded stroke. The feed deliberately delivers
// our own writes back to us (self-echo); the board's merge handles those,
// not the transport. Malformed events are dropped with a warning.
func (c *Client) SubscribeInserts(onInsert func(state.Stroke)) (*Subscription, error) {
	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL("/subscribe"), nil)
	if err != nil {
		return nil, transportErr("subscribe", err)
	}
	sub := &Subscription{
		conn: conn,
		done: make(chan struct{}),
	}

	go func() {
		for {
			var ev insertEvent
			if err := conn.ReadJSON(&ev); err != nil {
				select {
				case <-sub.done:
				default:
					log.Printf("[sync] feed closed: %v", err)
				}
				return
			}
			if ev.Type != "insert" {
				continue
			}
			if !ev.Stroke.Valid() {
				log.Printf("[sync] dropping feed event: %v", ErrMalformedPayload)
				continue
			}
			select {
			case <-sub.done:
				return
			default:
				onInsert(ev.Stroke)
			}
		}
	}()

	return sub, nil
}
