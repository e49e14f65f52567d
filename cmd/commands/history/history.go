package history

import "github.com/spf13/cobra"

// NewCommand returns the "history" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded runs",
		Long: "List, inspect, and prune the local record of past runs.\n\n" +
			"Run history is stored locally in ~/.config/conform/conform.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
