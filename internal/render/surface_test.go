package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"Blackboard/internal/state"
)

var (
	background = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	red        = color.NRGBA{R: 0xff, A: 0xff}
)

type actions []state.Action

func (a actions) Actions() []state.Action { return a }

// assertColor compares colors allowing for anti-aliasing rounding.
func assertColor(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	for i, pair := range [][2]uint8{{want.R, got.R}, {want.G, got.G}, {want.B, got.B}, {want.A, got.A}} {
		assert.InDelta(t, float64(pair[0]), float64(pair[1]), 2, "channel %d: want %v, got %v", i, want, got)
	}
}

func newSized(t *testing.T, src Source, w, h int) *Surface {
	t.Helper()
	s := NewSurface(src, background)
	require.NoError(t, s.Resize(w, h))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSurfaceStateTransitions(t *testing.T) {
	s := NewSurface(actions(nil), background)
	assert.Equal(t, Uninitialized, s.State())

	require.NoError(t, s.Resize(50, 40))
	assert.Equal(t, Clean, s.State())
	assert.Equal(t, state.Extent{Width: 50, Height: 40}, s.Size())

	_, err := s.DrawLiveDot(10, 10, 3, red, false)
	require.NoError(t, err)
	assert.Equal(t, Dirty, s.State())

	require.NoError(t, s.Redraw())
	assert.Equal(t, Clean, s.State())

	require.NoError(t, s.Close())
	assert.Equal(t, Uninitialized, s.State())
}

func TestSurfaceUnsized(t *testing.T) {
	s := NewSurface(actions(nil), background)

	_, err := s.DrawLiveDot(1, 1, 1, red, false)
	assert.ErrorIs(t, err, ErrUnsized)
	_, err = s.DrawLiveLine(1, 1, 2, 2, 1, red, false)
	assert.ErrorIs(t, err, ErrUnsized)
	assert.ErrorIs(t, s.Redraw(), ErrUnsized)
	assert.ErrorIs(t, s.EncodePNG(&bytes.Buffer{}), ErrUnsized)
	assert.Equal(t, state.Extent{}, s.Size())
}

func TestSurfaceResizeRejectsInvalidSize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(actions(nil), background)
			assert.Error(t, s.Resize(tt.w, tt.h))
			assert.Equal(t, Uninitialized, s.State())

			sized := newSized(t, actions(nil), 10, 10)
			assert.Error(t, sized.Resize(tt.w, tt.h))
			assert.Equal(t, state.Extent{Width: 10, Height: 10}, sized.Size())
		})
	}
}

func TestRedrawFillsBackground(t *testing.T) {
	s := newSized(t, actions(nil), 8, 6)
	img := s.Image()
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			assertColor(t, background, img.NRGBAAt(x, y))
		}
	}
}

func TestResizeRescalesDot(t *testing.T) {
	log := actions{state.Dot{X: 10, Y: 10, Radius: 2, Color: red, Captured: state.Extent{Width: 100, Height: 100}}}

	s := newSized(t, log, 100, 100)
	assertColor(t, red, s.Image().NRGBAAt(10, 10))

	require.NoError(t, s.Resize(200, 200))
	img := s.Image()
	assertColor(t, red, img.NRGBAAt(20, 20))
	assertColor(t, background, img.NRGBAAt(10, 10))
}

func TestScaleDotUsesSmallerFactorForRadius(t *testing.T) {
	d := state.Dot{X: 10, Y: 20, Radius: 4, Captured: state.Extent{Width: 100, Height: 100}}
	x, y, r := scaleDot(d, state.Extent{Width: 300, Height: 50})
	assert.InDelta(t, 30, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
	assert.InDelta(t, 2, r, 1e-9)
}

func TestScaleLineKeepsWidth(t *testing.T) {
	l := state.Line{X0: 10, Y0: 10, X1: 50, Y1: 20, Width: 6, Captured: state.Extent{Width: 100, Height: 100}}
	x0, y0, x1, y1, w := scaleLine(l, state.Extent{Width: 200, Height: 50})
	assert.Equal(t, []float64{20, 5, 100, 10}, []float64{x0, y0, x1, y1})
	assert.Equal(t, 6.0, w)
}

func TestScaleFactorsInvalidCaptureIsIdentity(t *testing.T) {
	sx, sy := scaleFactors(state.Extent{}, state.Extent{Width: 10, Height: 10})
	assert.Equal(t, 1.0, sx)
	assert.Equal(t, 1.0, sy)
}

func TestEraserMakesPixelsTransparent(t *testing.T) {
	ext := state.Extent{Width: 40, Height: 40}
	log := actions{
		state.Dot{X: 20, Y: 20, Radius: 8, Color: red, Captured: ext},
		state.Dot{X: 20, Y: 20, Radius: 4, Eraser: true, Captured: ext},
	}
	s := newSized(t, log, 40, 40)
	img := s.Image()

	assert.InDelta(t, 0, float64(img.NRGBAAt(20, 20).A), 2)
	assertColor(t, red, img.NRGBAAt(20, 14))
	assertColor(t, background, img.NRGBAAt(2, 2))
}

func TestEraserLineCutsThroughStroke(t *testing.T) {
	ext := state.Extent{Width: 60, Height: 30}
	log := actions{
		state.Line{X0: 5, Y0: 15, X1: 55, Y1: 15, Width: 6, Color: red, Captured: ext},
		state.Line{X0: 30, Y0: 0, X1: 30, Y1: 30, Width: 8, Eraser: true, Captured: ext},
	}
	s := newSized(t, log, 60, 30)
	img := s.Image()
	assert.InDelta(t, 0, float64(img.NRGBAAt(30, 15).A), 2)
	assertColor(t, red, img.NRGBAAt(10, 15))
}

func TestClearActionDrawsNothing(t *testing.T) {
	ext := state.Extent{Width: 20, Height: 20}
	s := newSized(t, actions{state.Clear{}, state.Dot{X: 10, Y: 10, Radius: 3, Color: red, Captured: ext}}, 20, 20)
	assertColor(t, red, s.Image().NRGBAAt(10, 10))

	s = newSized(t, actions{state.Clear{}}, 20, 20)
	assertColor(t, background, s.Image().NRGBAAt(10, 10))
}

func TestSetBackgroundRedraws(t *testing.T) {
	s := newSized(t, actions(nil), 4, 4)
	blue := color.NRGBA{B: 0xff, A: 0xff}
	require.NoError(t, s.SetBackground(blue))
	assertColor(t, blue, s.Image().NRGBAAt(1, 1))
	assert.Equal(t, blue, s.Background())
}

func TestEncodePNG(t *testing.T) {
	s := newSized(t, actions(nil), 12, 7)
	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 7, img.Bounds().Dy())
}

func TestLiveActionsCarryCurrentSize(t *testing.T) {
	s := newSized(t, actions(nil), 64, 48)
	d, err := s.DrawLiveDot(3, 4, 2, red, true)
	require.NoError(t, err)
	assert.Equal(t, state.Extent{Width: 64, Height: 48}, d.Captured)
	assert.True(t, d.Eraser)

	l, err := s.DrawLiveLine(1, 2, 3, 4, 5, red, false)
	require.NoError(t, err)
	assert.Equal(t, state.Extent{Width: 64, Height: 48}, l.Captured)
	assert.Equal(t, 5.0, l.Width)
}

// Replaying at the capture size reproduces live drawing pixel for pixel.
func TestReplayMatchesLiveDrawing(t *testing.T) {
	palette := []color.NRGBA{
		red,
		{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		{G: 0xc0, B: 0x40, A: 0xff},
	}
	rapid.Check(t, func(t *rapid.T) {
		const w, h = 48, 32
		log := state.NewLog(0)
		s := NewSurface(log, background)
		if err := s.Resize(w, h); err != nil {
			t.Fatalf("resize: %v", err)
		}
		defer func() { _ = s.Close() }()

		n := rapid.IntRange(1, 12).Draw(t, "n")
		for i := 0; i < n; i++ {
			c := rapid.SampledFrom(palette).Draw(t, "color")
			eraser := rapid.Bool().Draw(t, "eraser")
			x0 := rapid.Float64Range(0, w).Draw(t, "x0")
			y0 := rapid.Float64Range(0, h).Draw(t, "y0")
			size := float64(rapid.IntRange(1, 30).Draw(t, "size"))
			if rapid.Bool().Draw(t, "dot") {
				d, err := s.DrawLiveDot(x0, y0, size/2, c, eraser)
				if err != nil {
					t.Fatalf("live dot: %v", err)
				}
				log.Append(d)
				continue
			}
			x1 := rapid.Float64Range(0, w).Draw(t, "x1")
			y1 := rapid.Float64Range(0, h).Draw(t, "y1")
			l, err := s.DrawLiveLine(x0, y0, x1, y1, size, c, eraser)
			if err != nil {
				t.Fatalf("live line: %v", err)
			}
			log.Append(l)
		}

		live := s.Image()
		if err := s.Redraw(); err != nil {
			t.Fatalf("redraw: %v", err)
		}
		if !bytes.Equal(live.Pix, s.Image().Pix) {
			t.Fatalf("replay differs from live drawing")
		}
	})
}
