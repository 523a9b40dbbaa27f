package state

import (
	"sync"

	"github.com/google/uuid"
)

// Builder accumulates points for the stroke this client is currently
// drawing. At most one stroke is in progress at a time; a gesture owns the
// builder from Begin to Finish.
type Builder struct {
	mu      sync.Mutex
	current *Stroke
	drawing bool
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Begin starts a new stroke with a fresh id and a single origin point,
// taking over from any stroke that was somehow still in progress.
func (b *Builder) Begin(origin Point, color string, thickness float64) Stroke {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = &Stroke{
		ID:        uuid.NewString(),
		Color:     color,
		Thickness: thickness,
		Points:    []Point{origin},
	}
	b.drawing = true
	return b.current.Clone()
}

// AppendPoint adds a point to the in-progress stroke and returns an updated
// copy. Late or duplicate move events after release are a no-op.
func (b *Builder) AppendPoint(p Point) (Stroke, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.drawing || b.current == nil {
		return Stroke{}, false
	}
	b.current.Points = append(b.current.Points, p)
	return b.current.Clone(), true
}

// Current returns a copy of the in-progress stroke, if any. The flush timer
// reads it on every tick.
func (b *Builder) Current() (Stroke, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Stroke{}, false
	}
	return b.current.Clone(), true
}

// Finish finalizes and returns the completed stroke, clearing the
// in-progress state. A double release returns false and does nothing.
func (b *Builder) Finish() (Stroke, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil {
		return Stroke{}, false
	}
	done := b.current.Clone()
	b.current = nil
	b.drawing = false
	return done, true
}

// Drawing reports whether a gesture is active.
func (b *Builder) Drawing() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drawing
}
