package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage package feed credentials",
		Long: `Manage package feed credentials.

Use this command group to store, inspect, and remove the tokens the
packages phase uses for authenticated feeds.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
