package state

import (
	"time"
)

// Point is a single 2D coordinate in canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous drawn line from press to release. The ID is
// assigned client-side when the stroke begins and stays the merge key for
// the whole lifetime of the stroke. CreatedAt is assigned by the store and
// only orders the initial load, never merge decisions.
type Stroke struct {
	ID        string    `json:"id"`
	Color     string    `json:"color"`
	Thickness float64   `json:"thickness"`
	Points    []Point   `json:"points"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Clone returns a deep copy. The builder mutates its in-progress stroke in
// place, so everything that leaves the builder must be a copy.
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = make([]Point, len(s.Points))
	copy(out.Points, s.Points)
	return out
}

// FlatPoints returns the point list as the flat interleaved sequence
// [x0,y0,x1,y1,...] the rendering surface consumes.
func (s Stroke) FlatPoints() []float64 {
	flat := make([]float64, 0, len(s.Points)*2)
	for _, p := range s.Points {
		flat = append(flat, p.X, p.Y)
	}
	return flat
}

// Valid reports whether a stroke decoded from the wire carries every
// required field. Rows failing this check are dropped by the sync layer.
func (s Stroke) Valid() bool {
	return s.ID != "" && s.Color != "" && s.Thickness > 0
}
