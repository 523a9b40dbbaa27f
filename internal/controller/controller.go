// Package controller orchestrates pointer input, the stroke builder, the
// reconciliation board, and the sync client for one canvas session.
package controller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Subscription is a cancelable feed handle.
type Subscription interface {
	Cancel()
}

// SyncAPI is what the controller needs from the sync client.
type SyncAPI interface {
	LoadAll(ctx context.Context) ([]state.Stroke, error)
	PushPartial(ctx context.Context, s state.Stroke) error
	ClearAll(ctx context.Context) error
	SubscribeInserts(onInsert func(state.Stroke)) (Subscription, error)
}

// Options tune the controller. Zero values get sensible defaults.
type Options struct {
	// FlushInterval is the cadence of partial pushes while drawing.
	// Default 100ms, bounding how stale other clients' view of an
	// in-progress stroke can get.
	FlushInterval time.Duration
	// FinishRetryDelay is the backoff before the single retry of a failed
	// finish push. Default 500ms.
	FinishRetryDelay time.Duration
	// PushTimeout caps each individual network push. Default 5s.
	PushTimeout time.Duration
	// OnChange fires whenever the board content changed and the surface
	// should repaint. Called from several goroutines.
	OnChange func()
	// OnWarning surfaces a user-visible degradation (a stroke that could
	// not be synced stays visible locally only).
	OnWarning func(msg string)
}

// Controller drives one drawing session. Per gesture it walks
// Idle -> Drawing -> Idle; the flush timer runs only while Drawing.
type Controller struct {
	session *state.Session
	syncer  SyncAPI

	flushInterval time.Duration
	retryDelay    time.Duration
	pushTimeout   time.Duration
	onChange      func()
	onWarning     func(string)

	mu        sync.Mutex
	alive     bool
	stopFlush chan struct{}
	sub       Subscription
}

func New(session *state.Session, syncer SyncAPI, opts Options) *Controller {
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 100 * time.Millisecond
	}
	if opts.FinishRetryDelay <= 0 {
		opts.FinishRetryDelay = 500 * time.Millisecond
	}
	if opts.PushTimeout <= 0 {
		opts.PushTimeout = 5 * time.Second
	}
	return &Controller{
		session:       session,
		syncer:        syncer,
		flushInterval: opts.FlushInterval,
		retryDelay:    opts.FinishRetryDelay,
		pushTimeout:   opts.PushTimeout,
		onChange:      opts.OnChange,
		onWarning:     opts.OnWarning,
		alive:         true,
	}
}

// Start seeds the board from the store and opens the insert feed. A failed
// load is fatal for the session; the caller decides what to tell the user.
func (c *Controller) Start(ctx context.Context) error {
	strokes, err := c.syncer.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("initial load: %w", err)
	}
	c.session.Board.ReplaceAll(strokes)
	c.notifyChange()

	sub, err := c.syncer.SubscribeInserts(c.handleInsert)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		sub.Cancel()
		return nil
	}
	c.sub = sub
	c.mu.Unlock()
	log.Printf("[controller] session started with %d strokes", len(strokes))
	return nil
}

// handleInsert merges one feed notification. After Close it is a no-op, so
// a straggling event cannot mutate a discarded session.
func (c *Controller) handleInsert(s state.Stroke) {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if c.session.Board.MergeRemote(s) {
		c.notifyChange()
	}
}

// PointerDown begins a stroke with the session's current color and
// thickness. Input handlers hand in canvas-local coordinates.
func (c *Controller) PointerDown(p state.Point) {
	c.mu.Lock()
	if !c.alive || c.stopFlush != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stopFlush = stop
	c.mu.Unlock()

	stroke := c.session.Builder.Begin(p, c.session.Color(), c.session.Thickness())
	c.session.Board.UpsertLocal(stroke)
	c.notifyChange()
	go c.flushLoop(stop)
}

// PointerMove extends the in-progress stroke. The board is updated on every
// move for live feedback; no network call happens here, decoupling render
// latency from network latency.
func (c *Controller) PointerMove(p state.Point) {
	if !c.isAlive() {
		return
	}
	stroke, ok := c.session.Builder.AppendPoint(p)
	if !ok {
		return
	}
	c.session.Board.UpsertLocal(stroke)
	c.notifyChange()
}

// PointerUp finalizes the gesture and pushes the complete stroke, even if
// the last flush tick raced the release.
func (c *Controller) PointerUp() {
	if !c.isAlive() {
		return
	}
	c.stopFlushTimer()
	stroke, ok := c.session.Builder.Finish()
	if !ok {
		return
	}
	go c.finishPush(stroke)
}

// Clear wipes the board and the store. Any in-progress gesture is cancelled
// defensively. Local and remote clear are not transactional; if the remote
// call fails the strokes reappear on the next load or via late feed events.
func (c *Controller) Clear() {
	if !c.isAlive() {
		return
	}
	c.stopFlushTimer()
	c.session.Builder.Finish()
	c.session.Board.Clear()
	c.notifyChange()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.pushTimeout)
		defer cancel()
		if err := c.syncer.ClearAll(ctx); err != nil {
			log.Printf("[controller] remote clear failed: %v", err)
			c.notifyWarning("clear did not reach the store; strokes may reappear")
		}
	}()
}

// Close tears the session down: feed cancelled, flush timer stopped. Every
// callback that fires afterwards is a guaranteed no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.alive {
		c.mu.Unlock()
		return
	}
	c.alive = false
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	c.stopFlushTimer()
	c.session.Builder.Finish()
	if sub != nil {
		sub.Cancel()
	}
	log.Printf("[controller] session closed")
}

func (c *Controller) isAlive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.alive
}

func (c *Controller) stopFlushTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopFlush != nil {
		close(c.stopFlush)
		c.stopFlush = nil
	}
}

// flushLoop pushes the in-progress stroke upstream on a fixed cadence.
// Ticks do not wait for a previous push to resolve; overlapping pushes are
// commutative because each carries a superset of points and the store is
// keyed by id with overwrite semantics.
func (c *Controller) flushLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			stroke, ok := c.session.Builder.Current()
			if !ok {
				continue
			}
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), c.pushTimeout)
				defer cancel()
				if err := c.syncer.PushPartial(ctx, stroke); err != nil {
					// Losing one tick is fine; the next tick or the finish
					// push carries a superset of points.
					log.Printf("[controller] flush push failed: %v", err)
				}
			}()
		}
	}
}

// finishPush is the final, complete push for a released stroke. Unlike the
// periodic flush nothing retries it later, so it gets one backoff retry
// before the failure is surfaced. The stroke stays visible locally either
// way.
func (c *Controller) finishPush(stroke state.Stroke) {
	err := c.pushOnce(stroke)
	if err == nil {
		return
	}
	log.Printf("[controller] finish push for %s failed, retrying: %v", stroke.ID, err)
	time.Sleep(c.retryDelay)
	if err = c.pushOnce(stroke); err == nil {
		return
	}
	log.Printf("[controller] finish push for %s failed twice: %v", stroke.ID, err)
	c.notifyWarning("stroke could not be synced; it is visible only to you")
}

func (c *Controller) pushOnce(stroke state.Stroke) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.pushTimeout)
	defer cancel()
	return c.syncer.PushPartial(ctx, stroke)
}

func (c *Controller) notifyChange() {
	c.mu.Lock()
	alive, fn := c.alive, c.onChange
	c.mu.Unlock()
	if alive && fn != nil {
		fn()
	}
}

func (c *Controller) notifyWarning(msg string) {
	c.mu.Lock()
	alive, fn := c.alive, c.onWarning
	c.mu.Unlock()
	if alive && fn != nil {
		fn(msg)
	}
}
