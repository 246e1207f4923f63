package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"Blackboard/internal/board"
	"Blackboard/internal/state"
)

var cursorColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}

// BoardWidget shows the session surface and feeds it pointer input.
type BoardWidget struct {
	widget.BaseWidget
	session  *board.Session
	observer *resizeObserver

	mu        sync.Mutex
	hovering  bool
	cursorPos fyne.Position
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

// NewBoardWidget returns a widget drawing s. The widget's resize observer is
// attached to s and stops forwarding sizes once s is closed.
func NewBoardWidget(s *board.Session) *BoardWidget {
	b := &BoardWidget{session: s}
	b.observer = newResizeObserver(func(w, h int) {
		if err := s.Resize(w, h); err != nil {
			fyne.LogError("resize canvas", err)
		}
	})
	s.Attach(b.observer)
	b.ExtendBaseWidget(b)
	return b
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.session.OnPointerDown(float64(e.Position.X), float64(e.Position.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.OnPointerUp()
	}
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.session.OnPointerMove(float64(e.Position.X), float64(e.Position.Y))
	b.moveCursor(e.Position)
}

func (b *BoardWidget) DragEnd() {
	b.session.OnPointerUp()
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.mu.Lock()
	b.hovering = true
	b.mu.Unlock()
	b.moveCursor(e.Position)
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.moveCursor(e.Position)
}

func (b *BoardWidget) MouseOut() {
	b.mu.Lock()
	b.hovering = false
	b.mu.Unlock()
	b.session.OnPointerLeave()
	b.Refresh()
}

func (b *BoardWidget) moveCursor(pos fyne.Position) {
	b.mu.Lock()
	b.cursorPos = pos
	b.mu.Unlock()
	if b.session.Tool() == state.ToolEraser {
		b.Refresh()
	}
}

// cursor returns where the eraser preview goes and whether it is shown.
func (b *BoardWidget) cursor() (fyne.Position, float32, bool) {
	b.mu.Lock()
	pos, hovering := b.cursorPos, b.hovering
	b.mu.Unlock()
	if !hovering || b.session.Tool() != state.ToolEraser {
		return pos, 0, false
	}
	return pos, float32(b.session.EffectiveWidth()) / 2, true
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.raster = canvas.NewRaster(func(int, int) image.Image {
		return b.session.Image()
	})
	r.cursor = canvas.NewCircle(color.Transparent)
	r.cursor.StrokeColor = cursorColor
	r.cursor.StrokeWidth = 1
	r.cursor.Hide()
	return r
}

type boardWidgetRenderer struct {
	board  *BoardWidget
	raster *canvas.Raster
	cursor *canvas.Circle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster, r.cursor}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.board.observer.observe(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *boardWidgetRenderer) Refresh() {
	pos, radius, shown := r.board.cursor()
	if shown {
		r.cursor.Move(fyne.NewPos(pos.X-radius, pos.Y-radius))
		r.cursor.Resize(fyne.NewSize(2*radius, 2*radius))
		r.cursor.Show()
	} else {
		r.cursor.Hide()
	}
	canvas.Refresh(r.cursor)
	canvas.Refresh(r.raster)
}

func (r *boardWidgetRenderer) Destroy() {}

// resizeObserver forwards layout sizes to a session until closed. Repeated
// layouts at the same size are dropped.
type resizeObserver struct {
	mu     sync.Mutex
	fn     func(w, h int)
	width  int
	height int
	closed bool
}

func newResizeObserver(fn func(w, h int)) *resizeObserver {
	return &resizeObserver{fn: fn}
}

func (o *resizeObserver) observe(size fyne.Size) {
	w, h := int(size.Width+0.5), int(size.Height+0.5)
	if w <= 0 || h <= 0 {
		return
	}
	o.mu.Lock()
	if o.closed || (w == o.width && h == o.height) {
		o.mu.Unlock()
		return
	}
	o.width, o.height = w, h
	o.mu.Unlock()
	o.fn(w, h)
}

// Close stops forwarding. It is safe to call more than once.
func (o *resizeObserver) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}
