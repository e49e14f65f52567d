package config

import (
	"nathanbeddoewebdev/conform/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage conform configuration",
		Long: "View and modify persistent conform settings.\n\n" +
			"Configuration is stored at ~/.config/conform/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())
	cmd.AddCommand(PathCommand())

	return cmd
}
