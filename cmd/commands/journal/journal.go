package journal

import "github.com/spf13/cobra"

// NewCommand returns the "journal" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect run journals",
		Long: "Render the journal or error summary a run wrote under the\n" +
			"target's .conform directory.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ShowCommand())

	return cmd
}
