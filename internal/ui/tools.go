package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/Pratham82/real-time-notes/internal/state"
)

// Palette colors, hex form because that is what the stroke model carries.
var paletteColors = []string{
	"#000000", // black
	"#ff0000", // red
	"#00a000", // green
	"#0000ff", // blue
	"#ff9900", // orange
}

// colorSwatch is a tappable square in the palette.
type colorSwatch struct {
	widget.BaseWidget
	hex      string
	onTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(hex string)) *colorSwatch {
	s := &colorSwatch{hex: hex, onTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(parseHexColor(s.hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.hex)
	}
}

// NewToolbar assembles the pen controls: color palette, thickness slider,
// clear, and export. Color and thickness land in the session and take
// effect from the next stroke on.
func NewToolbar(session *state.Session, onClear func(), onExport func()) fyne.CanvasObject {
	swatches := container.NewHBox()
	for _, hex := range paletteColors {
		swatches.Add(newColorSwatch(hex, session.SetColor))
	}

	thickness := widget.NewSlider(1, 20)
	thickness.SetValue(session.Thickness())
	thickness.OnChanged = session.SetThickness
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 36)), thickness)

	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.DeleteIcon(), onClear),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), onExport),
	)

	return container.NewHBox(
		widget.NewLabel("Color:"),
		swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		widget.NewSeparator(),
		actions,
		layout.NewSpacer(),
	)
}
