// Package cli implements the blackboard command line.
//
// Running blackboard with no subcommand opens the sketch panel. The config
// subcommand prints the effective settings. All commands accept --verbose
// (-v) for debug logging; the logger travels through the command context.
package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"Blackboard/internal/config"
	"Blackboard/internal/ui"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information shown by --version. main calls it
// with values injected through ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// settings are the flags shared by every command.
type settings struct {
	configPath string
	width      int
	height     int
	watch      bool
	verbose    bool
}

// Execute runs the blackboard CLI.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	var s settings

	root := &cobra.Command{
		Use:          "blackboard",
		Short:        "Blackboard is a sketch panel for freehand notes",
		Long:         `Blackboard opens a small resizable panel to scribble notes on with a pen or an eraser. Drawings live in memory only and support undo and redo.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if s.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			bridgeRenderLogger(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(cmd, &s)
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("blackboard %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	flags := root.PersistentFlags()
	flags.StringVar(&s.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/blackboard/config.toml)")
	flags.IntVar(&s.width, "width", 0, "initial canvas width in pixels")
	flags.IntVar(&s.height, "height", 0, "initial canvas height in pixels")
	flags.BoolVarP(&s.verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().BoolVar(&s.watch, "watch", false, "reload the config file when it changes")

	root.AddCommand(newConfigCmd(&s))
	return root
}

func runPanel(cmd *cobra.Command, s *settings) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, path, err := loadConfig(cmd, s)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "path", path, "width", cfg.Panel.Width, "height", cfg.Panel.Height)

	err = ui.RunApp(ctx, ui.Options{
		Config:     cfg,
		ConfigPath: path,
		Watch:      s.watch,
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	logger.Debug("panel closed")
	return nil
}

// loadConfig reads the config file and applies flag overrides. It returns the
// config and the path it was read from.
func loadConfig(cmd *cobra.Command, s *settings) (config.Config, string, error) {
	path := s.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, "", fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, path, err
	}
	if cmd.Flags().Changed("width") {
		cfg.Panel.Width = s.width
	}
	if cmd.Flags().Changed("height") {
		cfg.Panel.Height = s.height
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, path, err
	}
	return cfg, path, nil
}
