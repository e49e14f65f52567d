package history

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"text/tabwriter"

	"nathanbeddoewebdev/conform/internal/history"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Long: `List recorded runs, newest first.

Examples:
  conform history list
  conform history list --limit 50
  conform history list --running
  conform history list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 20, "Number of runs to display")
	cmd.Flags().Bool("running", false, "Show only runs still marked running")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	runningOnly, _ := cmd.Flags().GetBool("running")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	var runs []history.RunRecord
	if runningOnly {
		runs, err = store.ListRunning()
	} else {
		runs, err = store.ListRecent(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRUN\tSTARTED\tSTATUS\tRUNBOOK\tSTEPS\tFAILURES\tDURATION")
	fmt.Fprintln(w, "--\t---\t-------\t------\t-------\t-----\t--------\t--------")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID,
			shortRunID(r.RunID),
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Status,
			filepath.Base(r.Runbook),
			r.Steps,
			r.Failures,
			util.FormatDurationMs(r.DurationMs),
		)
	}
	w.Flush()
	return nil
}
