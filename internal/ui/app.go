package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

// AppID identifies the application to Fyne's preferences and storage.
const AppID = "dev.blackboard.panel"

// RunApp shows the panel and blocks until it is closed or ctx is cancelled.
func RunApp(ctx context.Context, opts Options) error {
	a := app.NewWithID(AppID)
	p, err := NewPanel(ctx, a, opts)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			fyne.Do(p.Close)
		case <-done:
		}
	}()

	p.Window().ShowAndRun()
	p.Close()
	return ctx.Err()
}
