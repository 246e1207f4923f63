package ui

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Blackboard/internal/board"
	"Blackboard/internal/config"
	"Blackboard/internal/state"
)

func newTestSession(t *testing.T) *board.Session {
	t.Helper()
	s := board.New(board.Options{
		Background: color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff},
		Tools:      state.DefaultTools(),
		Logger:     log.New(io.Discard),
	})
	require.NoError(t, s.Open(100, 100))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func primary(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestResizeObserver(t *testing.T) {
	var got [][2]int
	o := newResizeObserver(func(w, h int) { got = append(got, [2]int{w, h}) })

	o.observe(fyne.NewSize(100, 50))
	o.observe(fyne.NewSize(100, 50))
	o.observe(fyne.NewSize(0, 50))
	o.observe(fyne.NewSize(99.6, 50.2))
	require.NoError(t, o.Close())
	o.observe(fyne.NewSize(300, 300))
	require.NoError(t, o.Close())

	assert.Equal(t, [][2]int{{100, 50}}, got)
}

func TestBoardWidgetLayoutResizesSession(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	b := NewBoardWidget(s)
	r := test.WidgetRenderer(b)

	r.Layout(fyne.NewSize(120, 80))
	assert.Equal(t, state.Extent{Width: 120, Height: 80}, s.Size())

	require.NoError(t, s.Close())
	r.Layout(fyne.NewSize(200, 200))
	assert.Equal(t, state.Extent{}, s.Size())
}

func TestBoardWidgetStroke(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	b := NewBoardWidget(s)

	b.MouseDown(primary(10, 10))
	b.Dragged(drag(20, 20))
	b.Dragged(drag(30, 20))
	b.DragEnd()
	b.Dragged(drag(40, 40))

	acts := s.Actions()
	require.Len(t, acts, 3)
	assert.Equal(t, state.KindDot, acts[0].Kind())
	assert.Equal(t, state.KindLine, acts[2].Kind())
	assert.False(t, s.Drawing())
}

func TestBoardWidgetIgnoresSecondaryButton(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	b := NewBoardWidget(s)

	b.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 10)},
		Button:     desktop.MouseButtonSecondary,
	})
	assert.Empty(t, s.Actions())
}

func TestBoardWidgetMouseOutEndsStroke(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	b := NewBoardWidget(s)

	b.MouseDown(primary(10, 10))
	b.MouseOut()
	b.Dragged(drag(50, 50))
	assert.Len(t, s.Actions(), 1)
}

func TestEraserCursorPreview(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	b := NewBoardWidget(s)
	r := test.WidgetRenderer(b)
	cursor := r.Objects()[1]

	b.MouseIn(primary(30, 30))
	r.Refresh()
	assert.False(t, cursor.Visible(), "pen shows no preview")

	s.SetTool(state.ToolEraser)
	b.MouseMoved(primary(40, 40))
	r.Refresh()
	require.True(t, cursor.Visible())
	assert.Equal(t, fyne.NewSize(12, 12), cursor.Size())
	assert.Equal(t, fyne.NewPos(34, 34), cursor.Position())

	b.MouseOut()
	r.Refresh()
	assert.False(t, cursor.Visible())
}

func TestToolbarTracksActiveTool(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	tb := NewToolbar(s, state.DefaultTools(), []color.NRGBA{{R: 0xff, A: 0xff}})
	assert.Equal(t, "Size: 4px", tb.size.Text)

	tb.selectTool(state.ToolEraser)
	assert.Equal(t, "Size: 12px", tb.size.Text)
	assert.Equal(t, 12.0, tb.slider.Value)

	tb.slider.OnChanged(20)
	assert.Equal(t, 20, s.EffectiveWidth())
	assert.Equal(t, "Size: 20px", tb.size.Text)

	tb.selectTool(state.ToolPen)
	assert.Equal(t, "Size: 4px", tb.size.Text)

	swatch := tb.palette.Objects[0].(*colorSwatch)
	swatch.Tapped(&fyne.PointEvent{})
	assert.Equal(t, color.NRGBA{R: 0xff, A: 0xff}, s.Color())
}

func TestToolbarSetRange(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := newTestSession(t)
	tb := NewToolbar(s, state.DefaultTools(), nil)

	d := state.ToolDefaults{PenSize: 2, EraserSize: 6, MinSize: 2, MaxSize: 10, Color: color.NRGBA{A: 0xff}}
	s.SetToolDefaults(d)
	tb.SetRange(d)
	assert.Equal(t, 2.0, tb.slider.Min)
	assert.Equal(t, 10.0, tb.slider.Max)
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestWriteSnapshot(t *testing.T) {
	s := newTestSession(t)
	s.OnPointerDown(50, 50)
	s.OnPointerUp()

	t.Run("png", func(t *testing.T) {
		var w bufferCloser
		require.NoError(t, writeSnapshot(&w, "notes.png", s))
		assert.True(t, w.closed)

		img, err := png.Decode(&w.Buffer)
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
		_, _, _, alpha := img.At(0, 0).RGBA()
		assert.Equal(t, uint32(0xffff), alpha)
	})

	t.Run("pdf", func(t *testing.T) {
		var w bufferCloser
		require.NoError(t, writeSnapshot(&w, "notes.PDF", s))
		assert.True(t, w.closed)
		assert.True(t, bytes.HasPrefix(w.Bytes(), []byte("%PDF-")))
	})
}

func TestPanelLifecycle(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	p, err := NewPanel(context.Background(), a, Options{
		Config: config.Defaults(),
		Logger: log.New(io.Discard),
	})
	require.NoError(t, err)
	s := p.Session()
	assert.Equal(t, "Blackboard", p.Window().Title())

	s.OnPointerDown(10, 10)
	s.OnPointerUp()
	p.run(cmdUndo)
	assert.Empty(t, s.Actions())
	p.run(cmdRedo)
	assert.Len(t, s.Actions(), 1)

	p.run(cmdClose)
	assert.Empty(t, s.Actions())
	assert.False(t, s.CanRedo())

	// the close button after Escape is a no-op
	p.Close()
	p.applyConfig(config.Defaults())
}

func TestPanelApplyConfig(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	p, err := NewPanel(context.Background(), a, Options{
		Config: config.Defaults(),
		Logger: log.New(io.Discard),
	})
	require.NoError(t, err)
	defer p.Close()

	cfg := config.Defaults()
	cfg.Panel.Title = "Notes"
	cfg.Canvas.Background = "navy"
	cfg.Tools.Palette = []string{"red", "green"}
	cfg.Tools.PenSize = 8
	p.applyConfig(cfg)

	assert.Equal(t, "Notes", p.Window().Title())
	assert.Equal(t, color.NRGBA{B: 0x80, A: 0xff}, p.Session().Background())
	assert.Len(t, p.toolbar.palette.Objects, 2)

	p.Session().ResetSizes()
	assert.Equal(t, 8, p.Session().EffectiveWidth())
}

func TestNewPanelRejectsBadPalette(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	cfg := config.Defaults()
	cfg.Tools.Palette = []string{"not-a-color"}
	_, err := NewPanel(context.Background(), a, Options{Config: cfg, Logger: log.New(io.Discard)})
	require.ErrorIs(t, err, config.ErrInvalid)
}
