// Package config loads the panel settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"

	"Blackboard/internal/state"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all configurable Blackboard settings.
type Config struct {
	Panel   Panel   `toml:"panel"`
	Canvas  Canvas  `toml:"canvas"`
	Tools   Tools   `toml:"tools"`
	History History `toml:"history"`
}

type Panel struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Canvas struct {
	Background string `toml:"background"`
}

type Tools struct {
	Color      string   `toml:"color"`
	Palette    []string `toml:"palette"`
	PenSize    int      `toml:"pen_size"`
	EraserSize int      `toml:"eraser_size"`
	MinSize    int      `toml:"min_size"`
	MaxSize    int      `toml:"max_size"`
}

type History struct {
	Limit int `toml:"limit"` // undo depth, 0 for unbounded
}

// MinPanelSize is the smallest panel edge accepted, in pixels.
const MinPanelSize = 200

// Defaults returns the stock configuration.
func Defaults() Config {
	return Config{
		Panel:  Panel{Title: "Blackboard", Width: 400, Height: 300},
		Canvas: Canvas{Background: "#222222"},
		Tools: Tools{
			Color:      "white",
			Palette:    []string{"white", "red", "lime", "blue", "yellow"},
			PenSize:    4,
			EraserSize: 12,
			MinSize:    1,
			MaxSize:    30,
		},
		History: History{Limit: state.DefaultHistoryLimit},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/blackboard/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "blackboard", "config.toml"), nil
}

// Load reads the config file at path on top of the defaults.
// Returns defaults if the file is absent.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	return Parse(path, data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
// path is only used in error messages.
func Parse(path string, data []byte) (Config, error) {
	cfg := Defaults()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Defaults(), &ParseError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Defaults(), err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks sizes and colors.
func (c Config) Validate() error {
	if c.Panel.Width < MinPanelSize || c.Panel.Height < MinPanelSize {
		return fmt.Errorf("%w: panel must be at least %dx%d, got %dx%d",
			ErrInvalid, MinPanelSize, MinPanelSize, c.Panel.Width, c.Panel.Height)
	}
	t := c.Tools
	if t.MinSize < 1 || t.MaxSize < t.MinSize {
		return fmt.Errorf("%w: size range %d..%d", ErrInvalid, t.MinSize, t.MaxSize)
	}
	for name, v := range map[string]int{"pen_size": t.PenSize, "eraser_size": t.EraserSize} {
		if v < t.MinSize || v > t.MaxSize {
			return fmt.Errorf("%w: %s %d outside %d..%d", ErrInvalid, name, v, t.MinSize, t.MaxSize)
		}
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.History.Limit)
	}
	if _, err := ParseColor(c.Canvas.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := ParseColor(t.Color); err != nil {
		return fmt.Errorf("%w: color: %v", ErrInvalid, err)
	}
	if _, err := c.PaletteColors(); err != nil {
		return err
	}
	return nil
}

// BackgroundColor returns the parsed canvas background.
func (c Config) BackgroundColor() color.NRGBA {
	bg, err := ParseColor(c.Canvas.Background)
	if err != nil {
		bg, _ = ParseColor(Defaults().Canvas.Background)
	}
	return bg
}

// PaletteColors returns the parsed swatch colors in order.
func (c Config) PaletteColors() ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(c.Tools.Palette))
	for _, s := range c.Tools.Palette {
		col, err := ParseColor(s)
		if err != nil {
			return nil, fmt.Errorf("%w: palette: %v", ErrInvalid, err)
		}
		out = append(out, col)
	}
	return out, nil
}

// ToolDefaults converts the [tools] section for state.NewToolState.
func (c Config) ToolDefaults() state.ToolDefaults {
	d := state.DefaultTools()
	d.PenSize = c.Tools.PenSize
	d.EraserSize = c.Tools.EraserSize
	d.MinSize = c.Tools.MinSize
	d.MaxSize = c.Tools.MaxSize
	if col, err := ParseColor(c.Tools.Color); err == nil {
		d.Color = col
	}
	return d
}

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa or an SVG color name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		if c, ok := colornames.Map[strings.ToLower(s)]; ok {
			return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
		}
		return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
