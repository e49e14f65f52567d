package audit

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/conform/internal/auditlog"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than a duration",
		Long: `Delete audit entries older than a duration.

Examples:
  conform audit prune --older-than 30d
  conform audit prune --older-than 72h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove entries older than this duration (e.g. 30d, 72h)")

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

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	removed, err := repo.Prune(olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit entr(y/ies).\n", removed)
	return nil
}
