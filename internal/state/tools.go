package state

import (
	"fmt"
	"image/color"
)

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// ParseTool converts a tool name into a Tool.
func ParseTool(s string) (Tool, error) {
	switch Tool(s) {
	case ToolPen, ToolEraser:
		return Tool(s), nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// ToolDefaults configures a ToolState.
type ToolDefaults struct {
	PenSize    int
	EraserSize int
	MinSize    int
	MaxSize    int
	Color      color.NRGBA
}

// DefaultTools matches the stock size slider: 1..30, pen 4, eraser 12.
func DefaultTools() ToolDefaults {
	return ToolDefaults{
		PenSize:    4,
		EraserSize: 12,
		MinSize:    1,
		MaxSize:    30,
		Color:      color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	}
}

// ToolState is the current tool, a remembered size per tool and the pen color.
type ToolState struct {
	tool       Tool
	penSize    int
	eraserSize int
	color      color.NRGBA
	defaults   ToolDefaults
}

// NewToolState returns a pen-selected state using d.
func NewToolState(d ToolDefaults) *ToolState {
	if d.MinSize < 1 {
		d.MinSize = 1
	}
	if d.MaxSize < d.MinSize {
		d.MaxSize = d.MinSize
	}
	t := &ToolState{tool: ToolPen, color: d.Color, defaults: d}
	t.ResetSizes()
	return t
}

func (t *ToolState) Tool() Tool         { return t.tool }
func (t *ToolState) Color() color.NRGBA { return t.color }
func (t *ToolState) PenSize() int       { return t.penSize }
func (t *ToolState) EraserSize() int    { return t.eraserSize }

// Defaults returns the defaults the state was built with.
func (t *ToolState) Defaults() ToolDefaults { return t.defaults }

// SetTool switches the active tool. Each tool keeps its own size.
func (t *ToolState) SetTool(tool Tool) {
	if tool != ToolEraser {
		tool = ToolPen
	}
	t.tool = tool
}

// SetSize changes the size of the active tool, clamped to the allowed range.
// It returns the size actually stored.
func (t *ToolState) SetSize(n int) int {
	n = t.clamp(n)
	if t.tool == ToolEraser {
		t.eraserSize = n
	} else {
		t.penSize = n
	}
	return n
}

// ResetSizes restores both tool sizes to their defaults.
func (t *ToolState) ResetSizes() {
	t.penSize = t.clamp(t.defaults.PenSize)
	t.eraserSize = t.clamp(t.defaults.EraserSize)
}

func (t *ToolState) SetColor(c color.NRGBA) {
	t.color = c
}

// SetDefaults replaces the defaults used by ResetSizes and re-clamps the
// current sizes to the new range.
func (t *ToolState) SetDefaults(d ToolDefaults) {
	if d.MinSize < 1 {
		d.MinSize = 1
	}
	if d.MaxSize < d.MinSize {
		d.MaxSize = d.MinSize
	}
	t.defaults = d
	t.penSize = t.clamp(t.penSize)
	t.eraserSize = t.clamp(t.eraserSize)
}

// EffectiveWidth is the stroke width of the active tool in pixels.
func (t *ToolState) EffectiveWidth() int {
	if t.tool == ToolEraser {
		return t.eraserSize
	}
	return t.penSize
}

// Erasing reports whether the eraser is active.
func (t *ToolState) Erasing() bool {
	return t.tool == ToolEraser
}

func (t *ToolState) clamp(n int) int {
	return min(max(n, t.defaults.MinSize), t.defaults.MaxSize)
}
