package config

import (
	"fmt"

	"nathanbeddoewebdev/conform/internal/config"

	"github.com/spf13/cobra"
)

// PathCommand returns the "config path" command.
func PathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
		SilenceUsage: true,
	}
}
