// Package board ties the drawing log, tool state and raster surface of one
// open panel together. A Session is created per panel and discarded with it;
// nothing is shared between sessions.
package board

import (
	"errors"
	"image"
	"image/color"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"Blackboard/internal/render"
	"Blackboard/internal/state"
)

// Options configures a Session.
type Options struct {
	Background   color.NRGBA
	Tools        state.ToolDefaults
	HistoryLimit int
	Logger       *log.Logger
}

// Session is the state of one open panel: the action log with its undo
// history, the tool state, the surface replaying the log and every resource
// that must be released when the panel closes.
//
// All methods are safe to call from any goroutine; the UI calls them from
// its event loop.
type Session struct {
	// OnRedraw is called after the surface pixels change. It runs without
	// the session lock held.
	OnRedraw func()

	mu        sync.Mutex
	id        string
	logger    *log.Logger
	opts      Options
	actions   *state.Log
	tools     *state.ToolState
	surface   *render.Surface
	strokes   state.StrokeCounter
	resources []io.Closer

	drawing      bool
	lastX, lastY float64
	segments     int
}

// New returns a closed session. Call Open before feeding it pointer input.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	id := state.NewSessionID()
	s := &Session{
		id:     id,
		opts:   opts,
		logger: opts.Logger.With("session", id[:8]),
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.actions = state.NewLog(s.opts.HistoryLimit)
	s.tools = state.NewToolState(s.opts.Tools)
	s.surface = render.NewSurface(s.actions, s.opts.Background)
	s.drawing = false
	s.segments = 0
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Open starts the session with fresh tool state and an empty log, and sizes
// the surface to width x height.
func (s *Session) Open(width, height int) error {
	s.mu.Lock()
	s.reset()
	err := s.surface.Resize(width, height)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.logger.Info("panel opened", "width", width, "height", height)
	s.redrawn()
	return nil
}

// Attach hands ownership of r to the session; Close releases it. Resources
// are released in reverse order of attachment.
func (s *Session) Attach(r io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = append(s.resources, r)
}

// Close releases every attached resource and discards all drawing state.
// Close is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	resources := s.resources
	s.resources = nil
	var errs []error
	for _, r := range slices.Backward(resources) {
		errs = append(errs, r.Close())
	}
	errs = append(errs, s.surface.Close())
	strokes := s.strokes.Current()
	s.reset()
	s.mu.Unlock()

	err := errors.Join(errs...)
	if len(resources) > 0 || strokes > 0 {
		s.logger.Info("panel closed", "strokes", strokes, "released", len(resources))
	}
	if err != nil {
		s.logger.Warn("panel teardown", "err", err)
	}
	return err
}

// Resize resizes the surface and replays the log at the new size.
func (s *Session) Resize(width, height int) error {
	s.mu.Lock()
	old := s.surface.Size()
	err := s.surface.Resize(width, height)
	if err == nil && s.drawing && old.Valid() {
		// keep an in-progress stroke continuous at the new scale
		s.lastX *= float64(width) / float64(old.Width)
		s.lastY *= float64(height) / float64(old.Height)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.logger.Debug("resized", "width", width, "height", height)
	s.redrawn()
	return nil
}

// Size returns the current surface size.
func (s *Session) Size() state.Extent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Size()
}

// OnPointerDown starts a stroke: it snapshots the log for undo and paints the
// stroke's initial dot. Input before the surface is sized is ignored.
func (s *Session) OnPointerDown(x, y float64) {
	s.mu.Lock()
	if !s.surface.Size().Valid() {
		s.mu.Unlock()
		return
	}
	s.actions.BeginStroke()
	n := s.strokes.Next()
	width := float64(s.tools.EffectiveWidth())
	d, err := s.surface.DrawLiveDot(x, y, width/2, s.tools.Color(), s.tools.Erasing())
	s.actions.Append(d)
	s.drawing = true
	s.lastX, s.lastY = x, y
	s.segments = 0
	tool := s.tools.Tool()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("draw dot", "err", err)
	}
	s.logger.Debug("stroke started", "stroke", n, "tool", tool, "width", width)
	s.redrawn()
}

// OnPointerMove extends the active stroke with a segment from the previous
// pointer position. It does nothing when no stroke is active.
func (s *Session) OnPointerMove(x, y float64) {
	s.mu.Lock()
	if !s.drawing {
		s.mu.Unlock()
		return
	}
	l, err := s.surface.DrawLiveLine(s.lastX, s.lastY, x, y,
		float64(s.tools.EffectiveWidth()), s.tools.Color(), s.tools.Erasing())
	s.actions.Append(l)
	s.lastX, s.lastY = x, y
	s.segments++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("draw segment", "err", err)
	}
	s.redrawn()
}

// OnPointerUp ends the active stroke.
func (s *Session) OnPointerUp() {
	s.endStroke("pointer up")
}

// OnPointerLeave ends the active stroke when the pointer leaves the surface.
func (s *Session) OnPointerLeave() {
	s.endStroke("pointer left")
}

func (s *Session) endStroke(reason string) {
	s.mu.Lock()
	was := s.drawing
	s.drawing = false
	segments := s.segments
	n := s.strokes.Current()
	s.mu.Unlock()
	if was {
		s.logger.Debug("stroke ended", "stroke", n, "segments", segments, "reason", reason)
	}
}

// Drawing reports whether a stroke is in progress.
func (s *Session) Drawing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawing
}

// Clear resets the surface. The previous log is kept for undo.
func (s *Session) Clear() {
	s.mu.Lock()
	s.actions.SnapshotAndClear()
	err := s.redrawLocked()
	s.mu.Unlock()
	s.logger.Info("cleared")
	s.finish(err)
}

// Undo reverts the last stroke or clear. It returns true if the surface was
// redrawn.
func (s *Session) Undo() bool {
	s.mu.Lock()
	changed := s.actions.Undo()
	var err error
	if changed {
		err = s.redrawLocked()
	}
	s.mu.Unlock()
	if changed {
		s.logger.Debug("undo")
		s.finish(err)
	}
	return changed
}

// Redo re-applies the last undone stroke or clear. It returns true if the
// surface was redrawn.
func (s *Session) Redo() bool {
	s.mu.Lock()
	changed := s.actions.Redo()
	var err error
	if changed {
		err = s.redrawLocked()
	}
	s.mu.Unlock()
	if changed {
		s.logger.Debug("redo")
		s.finish(err)
	}
	return changed
}

func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions.CanUndo()
}

func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions.CanRedo()
}

// Actions returns a copy of the action log.
func (s *Session) Actions() []state.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions.Actions()
}

// SetTool switches between pen and eraser.
func (s *Session) SetTool(t state.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools.SetTool(t)
}

func (s *Session) Tool() state.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.Tool()
}

// SetSize sets the active tool's size and returns the clamped value stored.
func (s *Session) SetSize(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.SetSize(n)
}

// ResetSizes restores the default pen and eraser sizes.
func (s *Session) ResetSizes() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools.ResetSizes()
}

// EffectiveWidth is the active tool's stroke width, used to size the cursor
// preview.
func (s *Session) EffectiveWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.EffectiveWidth()
}

// ToolSizes returns the remembered pen and eraser sizes.
func (s *Session) ToolSizes() (pen, eraser int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.PenSize(), s.tools.EraserSize()
}

func (s *Session) SetColor(c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools.SetColor(c)
}

func (s *Session) Color() color.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tools.Color()
}

// SetToolDefaults replaces the sizes used by ResetSizes and the allowed range.
func (s *Session) SetToolDefaults(d state.ToolDefaults) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts.Tools = d
	s.tools.SetDefaults(d)
}

func (s *Session) Background() color.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Background()
}

// SetBackground changes the canvas background and redraws.
func (s *Session) SetBackground(c color.NRGBA) {
	s.mu.Lock()
	s.opts.Background = c
	err := s.surface.SetBackground(c)
	sized := s.surface.Size().Valid()
	s.mu.Unlock()
	if sized {
		s.finish(err)
	}
}

// Image returns a copy of the current surface pixels.
func (s *Session) Image() *image.NRGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surface.Image()
}

func (s *Session) redrawLocked() error {
	if !s.surface.Size().Valid() {
		return nil
	}
	return s.surface.Redraw()
}

func (s *Session) finish(err error) {
	if err != nil {
		s.logger.Error("redraw", "err", err)
	}
	s.redrawn()
}

func (s *Session) redrawn() {
	if s.OnRedraw != nil {
		s.OnRedraw()
	}
}
