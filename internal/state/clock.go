package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// NewSessionID returns a unique identifier for one open panel.
func NewSessionID() string {
	return uuid.NewString()
}

// StrokeCounter numbers strokes within a session. The zero value is ready to use.
type StrokeCounter struct {
	n atomic.Uint64
}

// Next returns the number of the next stroke, starting at 1.
func (c *StrokeCounter) Next() uint64 {
	return c.n.Add(1)
}

// Current returns the number of the most recent stroke, or 0 if none.
func (c *StrokeCounter) Current() uint64 {
	return c.n.Load()
}
