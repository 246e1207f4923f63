package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"Blackboard/internal/render"
)

// newLogger creates a logger writing to w at level, with timestamps formatted
// as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// bridgeRenderLogger routes the render package's slog output through l.
func bridgeRenderLogger(l *log.Logger) {
	render.SetLogger(slog.New(l))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
