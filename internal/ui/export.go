package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"Blackboard/internal/board"
	"Blackboard/internal/export"
)

// export asks for a file name and writes a PNG or PDF snapshot of the canvas.
func (p *Panel) export() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if w == nil {
			return
		}
		name := w.URI().Name()
		if err := writeSnapshot(w, name, p.session); err != nil {
			p.logger.Error("export failed", "file", name, "err", err)
			dialog.ShowError(err, p.window)
			return
		}
		p.logger.Info("exported snapshot", "file", w.URI().String())
	}, p.window)
	d.SetFileName("blackboard.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}

// writeSnapshot flattens the session surface onto its background and writes
// it to w in the format implied by name. w is always closed.
func writeSnapshot(w io.WriteCloser, name string, s *board.Session) error {
	img := export.Flatten(s.Image(), s.Background())
	if err := export.Write(w, img, export.FormatFor(name)); err != nil {
		_ = w.Close()
		return fmt.Errorf("export %s: %w", name, err)
	}
	return w.Close()
}
