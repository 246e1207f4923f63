package ui

import (
	"context"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/charmbracelet/log"

	"Blackboard/internal/board"
	"Blackboard/internal/config"
)

// Options configures a panel.
type Options struct {
	Config     config.Config
	ConfigPath string
	Watch      bool // reload ConfigPath on change
	Logger     *log.Logger
}

// Panel is one open sketch window: the session, its canvas widget and the
// toolbar. Escape and the window's close button both end in Close.
type Panel struct {
	window  fyne.Window
	session *board.Session
	board   *BoardWidget
	toolbar *Toolbar
	logger  *log.Logger

	closeOnce sync.Once
	closed    atomic.Bool
}

// NewPanel builds the panel window on a and opens its session. The window is
// not shown.
func NewPanel(ctx context.Context, a fyne.App, opts Options) (*Panel, error) {
	cfg := opts.Config
	palette, err := cfg.PaletteColors()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := board.New(board.Options{
		Background:   cfg.BackgroundColor(),
		Tools:        cfg.ToolDefaults(),
		HistoryLimit: cfg.History.Limit,
		Logger:       logger,
	})
	if err := s.Open(cfg.Panel.Width, cfg.Panel.Height); err != nil {
		return nil, err
	}

	p := &Panel{session: s, logger: logger}
	p.board = NewBoardWidget(s)
	p.toolbar = NewToolbar(s, cfg.ToolDefaults(), palette)
	p.toolbar.OnExport = p.export
	s.OnRedraw = p.board.Refresh

	p.window = a.NewWindow(cfg.Panel.Title)
	p.window.SetContent(container.NewBorder(p.toolbar.Content(), nil, nil, nil, p.board))
	bar := p.toolbar.Content().MinSize()
	p.window.Resize(fyne.NewSize(
		max(float32(cfg.Panel.Width), bar.Width),
		float32(cfg.Panel.Height)+bar.Height,
	))
	p.window.SetCloseIntercept(p.Close)
	bindShortcuts(p.window.Canvas(), p.run)

	if opts.Watch && opts.ConfigPath != "" {
		p.watch(ctx, opts.ConfigPath)
	}
	return p, nil
}

// Window returns the panel window.
func (p *Panel) Window() fyne.Window { return p.window }

// Session returns the panel's drawing session.
func (p *Panel) Session() *board.Session { return p.session }

// Close tears the panel down: the session releases the resize observer and
// the config watcher, drops the drawing and the window closes. Later calls
// do nothing.
func (p *Panel) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if err := p.session.Close(); err != nil {
			p.logger.Warn("close session", "err", err)
		}
		p.window.Close()
	})
}

func (p *Panel) run(cmd command) {
	switch cmd {
	case cmdClose:
		p.Close()
	case cmdUndo:
		p.session.Undo()
	case cmdRedo:
		p.session.Redo()
	}
}

// watch reloads the config file on change until the session closes.
func (p *Panel) watch(ctx context.Context, path string) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := config.Watch(ctx, path,
			func(cfg config.Config) {
				fyne.Do(func() { p.applyConfig(cfg) })
			},
			func(err error) {
				p.logger.Warn("config reload failed", "path", path, "err", err)
			})
		if err != nil {
			p.logger.Error("config watch", "path", path, "err", err)
		}
	}()
	p.session.Attach(closerFunc(func() error {
		cancel()
		<-done
		return nil
	}))
	p.logger.Debug("watching config", "path", path)
}

// applyConfig applies a reloaded config to the open panel. Panel size and
// history limit only take effect on the next start.
func (p *Panel) applyConfig(cfg config.Config) {
	if p.closed.Load() {
		return
	}
	palette, err := cfg.PaletteColors()
	if err != nil {
		p.logger.Warn("config reload failed", "err", err)
		return
	}
	d := cfg.ToolDefaults()
	p.session.SetToolDefaults(d)
	p.session.SetBackground(cfg.BackgroundColor())
	p.toolbar.SetRange(d)
	p.toolbar.SetPalette(palette)
	p.window.SetTitle(cfg.Panel.Title)
	p.logger.Info("config reloaded", "background", cfg.Canvas.Background)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
