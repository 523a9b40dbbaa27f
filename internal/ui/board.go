package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"github.com/Pratham82/real-time-notes/internal/controller"
	"github.com/Pratham82/real-time-notes/internal/state"
)

// CanvasWidget is the drawing surface. It forwards normalized canvas-local
// coordinates from mouse and touch input to the controller and paints the
// board snapshot in insertion order, in-progress stroke included.
type CanvasWidget struct {
	widget.BaseWidget
	ctrl    *controller.Controller
	session *state.Session
}

var _ fyne.Widget = (*CanvasWidget)(nil)
var _ fyne.Draggable = (*CanvasWidget)(nil)
var _ desktop.Mouseable = (*CanvasWidget)(nil)
var _ mobile.Touchable = (*CanvasWidget)(nil)

func NewCanvasWidget(ctrl *controller.Controller, session *state.Session) *CanvasWidget {
	c := &CanvasWidget{ctrl: ctrl, session: session}
	c.ExtendBaseWidget(c)
	return c
}

// Event positions are already relative to the widget, which is exactly the
// canvas-local space the controller expects.
func localPoint(pos fyne.Position) state.Point {
	return state.Point{X: float64(pos.X), Y: float64(pos.Y)}
}

func (c *CanvasWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.ctrl.PointerDown(localPoint(e.Position))
	}
}

func (c *CanvasWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		c.ctrl.PointerUp()
	}
}

func (c *CanvasWidget) Dragged(e *fyne.DragEvent) {
	c.ctrl.PointerMove(localPoint(e.Position))
}

func (c *CanvasWidget) DragEnd() {
	// Double release is safe; the builder treats it as a no-op.
	c.ctrl.PointerUp()
}

// Touch events map onto the same gesture path as the mouse. Claiming the
// touch here keeps the platform from scrolling while a stroke is active.
func (c *CanvasWidget) TouchDown(e *mobile.TouchEvent) {
	c.ctrl.PointerDown(localPoint(e.Position))
}

func (c *CanvasWidget) TouchUp(*mobile.TouchEvent) {
	c.ctrl.PointerUp()
}

func (c *CanvasWidget) TouchCancel(*mobile.TouchEvent) {
	c.ctrl.PointerUp()
}

func (c *CanvasWidget) MouseIn(*desktop.MouseEvent)    {}
func (c *CanvasWidget) MouseOut()                      {}
func (c *CanvasWidget) MouseMoved(*desktop.MouseEvent) {}

func (c *CanvasWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &canvasRenderer{
		board:      c,
		background: canvas.NewRectangle(color.White),
	}
	return r
}

type canvasRenderer struct {
	board      *CanvasWidget
	background *canvas.Rectangle
}

// Objects rebuilds the scene from the board snapshot. Snapshot order is
// stacking order, so overlapping strokes layer the same way on every
// client.
func (r *canvasRenderer) Objects() []fyne.CanvasObject {
	objects := []fyne.CanvasObject{r.background}
	for _, s := range r.board.session.Board.Snapshot() {
		strokeColor := parseHexColor(s.Color)
		// Points come flat-interleaved: [x0,y0,x1,y1,...].
		flat := s.FlatPoints()
		for i := 3; i < len(flat); i += 2 {
			segment := canvas.NewLine(strokeColor)
			segment.StrokeWidth = float32(s.Thickness)
			segment.Position1 = fyne.NewPos(float32(flat[i-3]), float32(flat[i-2]))
			segment.Position2 = fyne.NewPos(float32(flat[i-1]), float32(flat[i]))
			objects = append(objects, segment)
		}
	}
	return objects
}

func (r *canvasRenderer) Refresh() {
	canvas.Refresh(r.board)
}

func (r *canvasRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
}

func (r *canvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

func (r *canvasRenderer) Destroy() {}

// parseHexColor decodes "#rrggbb" (case-insensitive). Anything else paints
// black rather than failing the render.
func parseHexColor(hex string) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
