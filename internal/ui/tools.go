package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"Blackboard/internal/board"
	"Blackboard/internal/state"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the tool controls of a panel. Every control calls straight
// into the session; the toolbar only mirrors tool state back into the slider
// and the size label.
type Toolbar struct {
	session  *board.Session
	slider   *widget.Slider
	size     *widget.Label
	palette  *fyne.Container
	content  fyne.CanvasObject
	OnExport func()
}

// NewToolbar builds the controls for s with the given swatch colors.
func NewToolbar(s *board.Session, d state.ToolDefaults, palette []color.NRGBA) *Toolbar {
	t := &Toolbar{session: s}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { t.selectTool(state.ToolPen) }),
		widget.NewToolbarAction(theme.ContentRemoveIcon(), func() { t.selectTool(state.ToolEraser) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), s.Clear),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() { s.Undo() }),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() { s.Redo() }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if t.OnExport != nil {
				t.OnExport()
			}
		}),
	)

	t.size = widget.NewLabel("")
	t.slider = widget.NewSlider(float64(d.MinSize), float64(d.MaxSize))
	t.slider.Step = 1
	t.slider.OnChanged = func(val float64) {
		n := s.SetSize(int(val))
		t.size.SetText(sizeLabel(n))
	}
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), t.slider)
	reset := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		s.ResetSizes()
		t.sync()
	})

	t.palette = container.NewHBox()
	t.SetPalette(palette)

	t.content = container.NewHBox(
		tb,
		widget.NewSeparator(),
		t.palette,
		widget.NewSeparator(),
		sliderContainer,
		reset,
		t.size,
		layout.NewSpacer(),
	)
	t.sync()
	return t
}

// Content returns the toolbar's canvas object.
func (t *Toolbar) Content() fyne.CanvasObject { return t.content }

// SetPalette replaces the swatches.
func (t *Toolbar) SetPalette(colors []color.NRGBA) {
	objs := make([]fyne.CanvasObject, 0, len(colors))
	for _, c := range colors {
		objs = append(objs, newColorSwatch(c, t.session.SetColor))
	}
	t.palette.Objects = objs
	t.palette.Refresh()
}

// SetRange changes the slider bounds after the tool defaults change.
func (t *Toolbar) SetRange(d state.ToolDefaults) {
	t.slider.Min = float64(d.MinSize)
	t.slider.Max = float64(d.MaxSize)
	t.sync()
}

func (t *Toolbar) selectTool(tool state.Tool) {
	t.session.SetTool(tool)
	t.sync()
}

// sync moves the slider and label to the active tool's size.
func (t *Toolbar) sync() {
	n := t.session.EffectiveWidth()
	t.slider.SetValue(float64(n))
	t.slider.Refresh()
	t.size.SetText(sizeLabel(n))
}

func sizeLabel(n int) string {
	return fmt.Sprintf("Size: %dpx", n)
}
