package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratham82/real-time-notes/internal/controller"
	"github.com/Pratham82/real-time-notes/internal/state"
)

// ctrlSync lifts *Client into the controller's sync interface.
type ctrlSync struct {
	*Client
}

func (c ctrlSync) SubscribeInserts(onInsert func(state.Stroke)) (controller.Subscription, error) {
	return c.Client.SubscribeInserts(onInsert)
}

// Two live sessions against one store: a gesture drawn on one canvas ends up
// on the other, and a fresh load returns the complete record.
func TestTwoClients_StrokeConverges(t *testing.T) {
	clientA, ts := newTestStore(t)
	clientB := NewClient(ts.Listener.Addr().String())

	sessionA := state.NewSession("#ff0000", 4)
	sessionB := state.NewSession("#0000ff", 2)

	ctrlA := controller.New(sessionA, ctrlSync{clientA}, controller.Options{
		FlushInterval: 10 * time.Millisecond,
	})
	ctrlB := controller.New(sessionB, ctrlSync{clientB}, controller.Options{
		FlushInterval: 10 * time.Millisecond,
	})
	defer ctrlA.Close()
	defer ctrlB.Close()

	ctx := context.Background()
	require.NoError(t, ctrlA.Start(ctx))
	require.NoError(t, ctrlB.Start(ctx))

	ctrlA.PointerDown(state.Point{X: 1, Y: 1})
	ctrlA.PointerMove(state.Point{X: 2, Y: 2})
	ctrlA.PointerMove(state.Point{X: 3, Y: 3})
	ctrlA.PointerUp()

	// A sees its own stroke immediately and exactly once.
	snapA := sessionA.Board.Snapshot()
	require.Len(t, snapA, 1)
	drawn := snapA[0]
	assert.Len(t, drawn.Points, 3)
	assert.Equal(t, "#ff0000", drawn.Color)
	assert.Equal(t, 4.0, drawn.Thickness)

	// B converges via the feed. The event may carry a partial point set if
	// it raced the finish push, so only identity fields are asserted here.
	require.Eventually(t, func() bool {
		return sessionB.Board.Len() == 1
	}, 2*time.Second, 10*time.Millisecond, "the stroke never reached the second session")

	snapB := sessionB.Board.Snapshot()
	require.Len(t, snapB, 1)
	assert.Equal(t, drawn.ID, snapB[0].ID)
	assert.Equal(t, drawn.Color, snapB[0].Color)
	assert.Equal(t, drawn.Thickness, snapB[0].Thickness)

	// The store ends up with the complete record.
	require.Eventually(t, func() bool {
		rows, err := clientB.LoadAll(ctx)
		return err == nil && len(rows) == 1 && len(rows[0].Points) == 3
	}, 2*time.Second, 10*time.Millisecond, "the finish push never landed")
}

// A clear on one session empties the store for everyone.
func TestTwoClients_ClearPropagatesThroughStore(t *testing.T) {
	clientA, ts := newTestStore(t)
	clientB := NewClient(ts.Listener.Addr().String())

	sessionA := state.NewSession("#ff0000", 4)
	ctrlA := controller.New(sessionA, ctrlSync{clientA}, controller.Options{})
	defer ctrlA.Close()

	ctx := context.Background()
	require.NoError(t, ctrlA.Start(ctx))

	ctrlA.PointerDown(state.Point{X: 1, Y: 1})
	ctrlA.PointerUp()
	require.Eventually(t, func() bool {
		rows, err := clientB.LoadAll(ctx)
		return err == nil && len(rows) == 1
	}, 2*time.Second, 10*time.Millisecond)

	ctrlA.Clear()
	require.Eventually(t, func() bool {
		rows, err := clientB.LoadAll(ctx)
		return err == nil && len(rows) == 0
	}, 2*time.Second, 10*time.Millisecond, "the remote clear never landed")
}
