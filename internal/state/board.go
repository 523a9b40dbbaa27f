package state

import (
	"log"
	"sync"
)

// Board is the reconciliation store: the ordered, id-deduplicated stroke
// collection every render reads from. Strokes keep stable insertion order so
// the stacking of overlapping strokes never changes silently.
//
// The id-presence check in MergeRemote is the sole deduplication mechanism.
// It runs under the same lock as the insert, so a feed event racing a local
// upsert can never produce two entries for one id.
type Board struct {
	mu      sync.RWMutex
	order   []string
	strokes map[string]Stroke
}

func NewBoard() *Board {
	return &Board{
		strokes: make(map[string]Stroke),
	}
}

// UpsertLocal inserts or replaces the entry for the stroke's id. The canvas
// controller calls it on every appended point so the rendered line grows
// live, long before the network has seen the stroke.
func (b *Board) UpsertLocal(s Stroke) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.strokes[s.ID]; !exists {
		b.order = append(b.order, s.ID)
	}
	b.strokes[s.ID] = s.Clone()
}

// MergeRemote applies a feed notification. Unknown ids append at the end;
// remote insert order approximates authorship order well enough here. A
// known id (our own echoed stroke, or a racing duplicate notification) is
// ignored: the first writer for an id wins, because by the time an id
// resolves remotely the authoring client already holds the freshest version.
// Returns true when the stroke was actually added.
func (b *Board) MergeRemote(s Stroke) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.strokes[s.ID]; exists {
		log.Printf("[board] stroke %s already present, ignoring", s.ID)
		return false
	}
	b.order = append(b.order, s.ID)
	b.strokes[s.ID] = s.Clone()
	return true
}

// ReplaceAll swaps the whole collection, keeping the given order. Used once
// per session to seed the board from the initial load.
func (b *Board) ReplaceAll(strokes []Stroke) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.order = make([]string, 0, len(strokes))
	b.strokes = make(map[string]Stroke, len(strokes))
	for _, s := range strokes {
		if _, exists := b.strokes[s.ID]; exists {
			continue
		}
		b.order = append(b.order, s.ID)
		b.strokes[s.ID] = s.Clone()
	}
}

// Clear empties the collection.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.order = nil
	b.strokes = make(map[string]Stroke)
}

// Snapshot returns the strokes in stable insertion order for rendering.
func (b *Board) Snapshot() []Stroke {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Stroke, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.strokes[id].Clone())
	}
	return out
}

// Len returns the number of strokes on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.order)
}
