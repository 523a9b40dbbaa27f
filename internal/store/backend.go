// Package store is the persistent side of the canvas: an id-keyed stroke
// table with insert-or-replace semantics plus a websocket feed that notifies
// subscribers of newly inserted strokes.
package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Backend persists strokes. Upsert reports whether the row was newly
// inserted, which is what decides whether the feed fires. CreatedAt is
// assigned on first insert and preserved across upserts.
type Backend interface {
	SelectAll() ([]state.Stroke, error)
	Upsert(s state.Stroke) (inserted bool, err error)
	DeleteAll() error
	Close() error
}

// OpenBackend picks a backend from configuration: a SQLite file when a path
// is given, an in-memory table otherwise.
func OpenBackend(sqlitePath string) (Backend, error) {
	if strings.TrimSpace(sqlitePath) == "" {
		return NewMemoryBackend(), nil
	}
	return OpenSQLiteBackend(sqlitePath)
}

// MemoryBackend keeps the stroke table in process memory. Used by ephemeral
// boards and throughout the tests.
type MemoryBackend struct {
	mu   sync.RWMutex
	rows map[string]state.Stroke
	last time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		rows: make(map[string]state.Stroke),
	}
}

func (m *MemoryBackend) SelectAll() ([]state.Stroke, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]state.Stroke, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, row.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryBackend) Upsert(s state.Stroke) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.rows[s.ID]
	row := s.Clone()
	if exists {
		row.CreatedAt = existing.CreatedAt
	} else {
		// Strictly increasing timestamps keep load order deterministic even
		// when two inserts land within one wall-clock tick.
		now := time.Now().UTC()
		if !now.After(m.last) {
			now = m.last.Add(time.Nanosecond)
		}
		m.last = now
		row.CreatedAt = now
	}
	m.rows[s.ID] = row
	return !exists, nil
}

func (m *MemoryBackend) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = make(map[string]state.Stroke)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
