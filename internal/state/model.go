package state

import "image/color"

// Extent is the size of the drawing surface, in pixels.
type Extent struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive.
func (e Extent) Valid() bool {
	return e.Width > 0 && e.Height > 0
}

type Kind string

const (
	KindDot   Kind = "dot"
	KindLine  Kind = "line"
	KindClear Kind = "clear"
)

// Action is one entry of the drawing log. The concrete types are Dot, Line
// and Clear.
type Action interface {
	Kind() Kind
	action()
}

// Dot is a filled circle, emitted once at the start of every stroke.
type Dot struct {
	X, Y     float64
	Radius   float64
	Color    color.NRGBA
	Eraser   bool
	Captured Extent // surface size when the dot was drawn
}

// Line is one segment of a stroke, drawn with round caps.
type Line struct {
	X0, Y0   float64
	X1, Y1   float64
	Width    float64
	Color    color.NRGBA
	Eraser   bool
	Captured Extent
}

// Clear marks the point where the whole surface was reset.
type Clear struct{}

func (Dot) Kind() Kind   { return KindDot }
func (Line) Kind() Kind  { return KindLine }
func (Clear) Kind() Kind { return KindClear }

func (Dot) action()   {}
func (Line) action()  {}
func (Clear) action() {}
