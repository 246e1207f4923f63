// Package render replays a drawing log onto a raster surface.
//
// A Surface is a projection of the log: Redraw clears it to the background
// and replays every action, rescaling coordinates from the size each action
// was captured at to the surface's current size. Live drawing paints a single
// segment immediately and hands back the action to append to the log, so a
// later replay reproduces it exactly.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"time"

	"github.com/gogpu/gg"

	"Blackboard/internal/state"
)

// ErrUnsized is returned when drawing on a surface that has not been resized yet.
var ErrUnsized = errors.New("render: surface has not been sized")

// State is the lifecycle state of a Surface.
type State int

const (
	Uninitialized State = iota
	Sized               // reallocated, contents undefined until the next redraw
	Dirty               // live segments drawn since the last replay
	Clean               // contents match a full replay of the log
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Sized:
		return "sized"
	case Dirty:
		return "dirty"
	case Clean:
		return "clean"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Source supplies the actions to replay. *state.Log implements it.
type Source interface {
	Actions() []state.Action
}

// Surface is a resizable raster canvas driven by an action log.
type Surface struct {
	src   Source
	bg    color.NRGBA
	dc    *gg.Context
	mask  *gg.Context // scratch coverage buffer for erase compositing
	state State
}

// NewSurface returns an unsized surface that replays src over bg.
func NewSurface(src Source, bg color.NRGBA) *Surface {
	return &Surface{src: src, bg: bg}
}

// State returns the current lifecycle state.
func (s *Surface) State() State { return s.state }

// Size returns the current surface size, zero before the first Resize.
func (s *Surface) Size() state.Extent {
	if s.dc == nil {
		return state.Extent{}
	}
	return state.Extent{Width: s.dc.Width(), Height: s.dc.Height()}
}

// Background returns the fill color used by Redraw.
func (s *Surface) Background() color.NRGBA { return s.bg }

// SetBackground changes the fill color and redraws if the surface is sized.
func (s *Surface) SetBackground(c color.NRGBA) error {
	s.bg = c
	if s.dc == nil {
		return nil
	}
	return s.Redraw()
}

// Resize reallocates the surface at width x height and redraws it from the log.
func (s *Surface) Resize(width, height int) error {
	if s.dc == nil {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("render: invalid surface size %dx%d", width, height)
		}
		s.dc = gg.NewContext(width, height)
		s.mask = gg.NewContext(width, height)
	} else {
		if err := s.dc.Resize(width, height); err != nil {
			return fmt.Errorf("render: resize surface: %w", err)
		}
		if err := s.mask.Resize(width, height); err != nil {
			return fmt.Errorf("render: resize mask: %w", err)
		}
	}
	s.state = Sized
	Logger().Debug("surface resized", "width", width, "height", height)
	return s.Redraw()
}

// Redraw fills the background and replays every action of the source in order.
func (s *Surface) Redraw() error {
	if s.dc == nil {
		return ErrUnsized
	}
	start := time.Now()
	s.state = Dirty
	s.dc.ClearWithColor(toRGBA(s.bg))

	actions := s.src.Actions()
	for i, a := range actions {
		if err := s.paint(a); err != nil {
			return fmt.Errorf("render: replay action %d (%s): %w", i, a.Kind(), err)
		}
	}
	s.state = Clean
	Logger().Debug("surface redrawn", "actions", len(actions), "elapsed", time.Since(start))
	return nil
}

// DrawLiveDot paints one dot at the current size and returns the action
// describing it, stamped with the current surface size.
func (s *Surface) DrawLiveDot(x, y, radius float64, c color.NRGBA, eraser bool) (state.Dot, error) {
	if s.dc == nil {
		return state.Dot{}, ErrUnsized
	}
	d := state.Dot{X: x, Y: y, Radius: radius, Color: c, Eraser: eraser, Captured: s.Size()}
	if err := s.paintDot(d); err != nil {
		return d, err
	}
	s.state = Dirty
	return d, nil
}

// DrawLiveLine paints one segment at the current size and returns the action
// describing it, stamped with the current surface size.
func (s *Surface) DrawLiveLine(x0, y0, x1, y1, width float64, c color.NRGBA, eraser bool) (state.Line, error) {
	if s.dc == nil {
		return state.Line{}, ErrUnsized
	}
	l := state.Line{X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c, Eraser: eraser, Captured: s.Size()}
	if err := s.paintLine(l); err != nil {
		return l, err
	}
	s.state = Dirty
	return l, nil
}

// Image returns a copy of the surface pixels. Erased areas are transparent.
func (s *Surface) Image() *image.NRGBA {
	size := s.Size()
	img := image.NewNRGBA(image.Rect(0, 0, size.Width, size.Height))
	if s.dc != nil {
		copy(img.Pix, s.dc.ResizeTarget().Data())
	}
	return img
}

// EncodePNG writes the surface pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if s.dc == nil {
		return ErrUnsized
	}
	return png.Encode(w, s.Image())
}

// Close releases the surface buffers. The surface returns to Uninitialized.
func (s *Surface) Close() error {
	var err error
	if s.dc != nil {
		err = errors.Join(s.dc.Close(), s.mask.Close())
	}
	s.dc, s.mask = nil, nil
	s.state = Uninitialized
	return err
}

func (s *Surface) paint(a state.Action) error {
	switch a := a.(type) {
	case state.Dot:
		return s.paintDot(a)
	case state.Line:
		return s.paintLine(a)
	case state.Clear:
		// The background fill at the top of Redraw already reset the surface.
		return nil
	}
	return fmt.Errorf("unknown action %T", a)
}

func (s *Surface) paintDot(d state.Dot) error {
	x, y, r := scaleDot(d, s.Size())
	shape := func(dc *gg.Context) error {
		dc.DrawCircle(x, y, r)
		return dc.Fill()
	}
	if d.Eraser {
		return s.erase(dotDamage(x, y, r), shape)
	}
	setColor(s.dc, d.Color)
	return shape(s.dc)
}

func (s *Surface) paintLine(l state.Line) error {
	x0, y0, x1, y1, w := scaleLine(l, s.Size())
	shape := func(dc *gg.Context) error {
		dc.SetLineWidth(w)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.DrawLine(x0, y0, x1, y1)
		return dc.Stroke()
	}
	if l.Eraser {
		return s.erase(lineDamage(x0, y0, x1, y1, w), shape)
	}
	setColor(s.dc, l.Color)
	return shape(s.dc)
}

func setColor(dc *gg.Context, c color.NRGBA) {
	dc.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}

func toRGBA(c color.NRGBA) gg.RGBA {
	return gg.RGBA2(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, float64(c.A)/255)
}
