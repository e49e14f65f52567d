package runbook

import "github.com/spf13/cobra"

// NewCommand returns the "runbook" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runbook",
		Short: "Inspect and validate runbooks",
		Long: "Render a runbook to the terminal or check its structure without\n" +
			"touching any target tree.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(LintCommand())

	return cmd
}
