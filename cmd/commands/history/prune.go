package history

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/conform/internal/history"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete run records older than a duration",
		Long: `Delete finished run records older than a duration. Records still
marked running are kept.

Examples:
  conform history prune --older-than 90d
  conform history prune --older-than 720h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove records older than this duration (e.g. 90d, 720h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	olderThanRaw, _ := cmd.Flags().GetString("older-than")
	olderThanRaw = strings.TrimSpace(olderThanRaw)
	if olderThanRaw == "" {
		return fmt.Errorf("--older-than is required")
	}

	olderThan, err := util.ParseDuration(olderThanRaw)
	if err != nil {
		return err
	}

	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	removed, err := store.DeleteOlderThan(olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run record(s).\n", removed)
	return nil
}
