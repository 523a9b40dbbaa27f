// Package export renders a board snapshot to PDF.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Canvas points are screen pixels; divide down so a typical board fits an
// A4 page in millimetres.
const pixelsPerMM = 4.0

// WritePDF draws the strokes onto one A4 page, in the given stacking
// order, and writes the document to w.
func WritePDF(w io.Writer, strokes []state.Stroke) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	for _, s := range strokes {
		r, g, b := hexComponents(s.Color)
		p.SetDrawColor(r, g, b)
		p.SetLineWidth(s.Thickness / pixelsPerMM)
		for i := 1; i < len(s.Points); i++ {
			p.Line(
				s.Points[i-1].X/pixelsPerMM, s.Points[i-1].Y/pixelsPerMM,
				s.Points[i].X/pixelsPerMM, s.Points[i].Y/pixelsPerMM,
			)
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func hexComponents(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
