package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratham82/real-time-notes/internal/state"
)

func collectInserts(t *testing.T, client *Client) (<-chan state.Stroke, *Subscription) {
	t.Helper()
	events := make(chan state.Stroke, 16)
	sub, err := client.SubscribeInserts(func(s state.Stroke) {
		events <- s
	})
	require.NoError(t, err)
	t.Cleanup(sub.Cancel)
	return events, sub
}

func waitInsert(t *testing.T, events <-chan state.Stroke) state.Stroke {
	t.Helper()
	select {
	case s := <-events:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a feed event")
		return state.Stroke{}
	}
}

func TestSubscribeInserts_DeliversOncePerNewID(t *testing.T) {
	client, _ := newTestStore(t)
	ctx := context.Background()
	events, _ := collectInserts(t, client)

	// The feed echoes our own writes; the first upsert of each id produces
	// exactly one event, updates produce none.
	require.NoError(t, client.PushPartial(ctx, testStroke("s1", state.Point{X: 1, Y: 1})))
	require.NoError(t, client.PushPartial(ctx, testStroke("s1",
		state.Point{X: 1, Y: 1}, state.Point{X: 2, Y: 2})))
	require.NoError(t, client.PushPartial(ctx, testStroke("s2", state.Point{X: 9, Y: 9})))

	first := waitInsert(t, events)
	assert.Equal(t, "s1", first.ID)

	second := waitInsert(t, events)
	assert.Equal(t, "s2", second.ID, "the s1 update must not surface on the feed")
}

func TestSubscription_CancelStopsCallbacks(t *testing.T) {
	client, _ := newTestStore(t)
	ctx := context.Background()
	events, sub := collectInserts(t, client)

	sub.Cancel()
	require.NoError(t, client.PushPartial(ctx, testStroke("s1", state.Point{X: 1, Y: 1})))

	select {
	case s := <-events:
		t.Fatalf("callback fired after Cancel with stroke %s", s.ID)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSubscription_CancelTwiceIsSafe(t *testing.T) {
	client, _ := newTestStore(t)
	_, sub := collectInserts(t, client)

	sub.Cancel()
	sub.Cancel()
}

// scriptedFeed serves /subscribe and plays back the given raw frames.
func scriptedFeed(t *testing.T, frames ...string) *Client {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, f := range frames {
			conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		// Keep the connection open so the client does not see EOF before
		// processing the frames.
		time.Sleep(time.Second)
		conn.Close()
	}))
	t.Cleanup(ts.Close)
	return NewClient(strings.TrimPrefix(ts.URL, "http://"))
}

func TestSubscribeInserts_SkipsMalformedAndForeignEvents(t *testing.T) {
	client := scriptedFeed(t,
		`{"type":"insert","stroke":{"id":"bad","points":[{"x":1,"y":1}]}}`,
		`{"type":"ping"}`,
		`{"type":"insert","stroke":{"id":"good","color":"#ff0000","thickness":4,"points":[{"x":2,"y":2}]}}`,
	)
	events, _ := collectInserts(t, client)

	s := waitInsert(t, events)
	assert.Equal(t, "good", s.ID, "incomplete and non-insert events must be skipped")
}

func TestSubscribeInserts_UnreachableStoreIsTransportError(t *testing.T) {
	client := NewClient("127.0.0.1:1")

	_, err := client.SubscribeInserts(func(state.Stroke) {})
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "subscribe", terr.Op)
}
