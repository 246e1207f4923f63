package cli

import (
	"github.com/spf13/cobra"
)

func newConfigCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long:  `Print the configuration blackboard would start with: the config file merged over the defaults, with --width and --height applied.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(cmd, s)
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("effective config", "path", path)
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
}
