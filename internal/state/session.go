package state

import "sync"

// Session is the per-canvas drawing context: the board, the builder for the
// in-progress stroke, and the author-local pen preferences. It is an
// explicit object owned by the canvas controller rather than a global, so
// several independent canvases can coexist in one process.
type Session struct {
	Board   *Board
	Builder *Builder

	mu        sync.Mutex
	color     string
	thickness float64
}

func NewSession(color string, thickness float64) *Session {
	return &Session{
		Board:     NewBoard(),
		Builder:   NewBuilder(),
		color:     color,
		thickness: thickness,
	}
}

// SetColor selects the pen color for strokes started from now on. The
// in-progress stroke, if any, keeps the color it began with.
func (s *Session) SetColor(hex string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = hex
}

func (s *Session) Color() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// SetThickness selects the pen thickness for future strokes, clamped to the
// UI range 1-20.
func (s *Session) SetThickness(t float64) {
	if t < 1 {
		t = 1
	}
	if t > 20 {
		t = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thickness = t
}

func (s *Session) Thickness() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thickness
}
