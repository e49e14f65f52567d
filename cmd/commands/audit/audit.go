package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage the command audit trail",
		Long: "View a local audit trail of conform commands and prune old entries.\n\n" +
			"Audit history is stored locally in ~/.config/conform/conform.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
