package history

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"nathanbeddoewebdev/conform/internal/history"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id|run-id>",
		Short: "Show one recorded run",
		Long: `Show the full record of one run, addressed by row id or run id.
Run ids may be shortened to a unique prefix.

Examples:
  conform history show 12
  conform history show 1b9d6bcd
  conform history show 12 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := lookup(store, args[0])
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("no run matching %q", args[0])
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(run)
	}
	if output != "text" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", run.RunID)
	fmt.Fprintf(out, "Status:    %s\n", run.Status)
	fmt.Fprintf(out, "Runbook:   %s\n", run.Runbook)
	fmt.Fprintf(out, "Target:    %s\n", run.Target)
	fmt.Fprintf(out, "Toolchain: %s\n", run.Toolchain)
	if run.Solution != "" {
		fmt.Fprintf(out, "Solution:  %s\n", run.Solution)
	}
	fmt.Fprintf(out, "Started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration:  %s\n", util.FormatDurationMs(run.DurationMs))
	fmt.Fprintf(out, "Steps:     %d (%d warnings, %d failures)\n", run.Steps, run.Warnings, run.Failures)
	if run.JournalPath != "" {
		fmt.Fprintf(out, "Journal:   %s\n", run.JournalPath)
	}
	if run.SummaryPath != "" && run.Failures > 0 {
		fmt.Fprintf(out, "Errors:    %s\n", run.SummaryPath)
	}
	return nil
}

// lookup resolves the argument as a numeric row id, an exact run id,
// or a unique run id prefix over recent runs, in that order.
func lookup(store *history.SQLiteStore, key string) (*history.RunRecord, error) {
	if id, err := strconv.ParseInt(key, 10, 64); err == nil {
		return store.Get(id)
	}

	run, err := store.GetByRunID(key)
	if err != nil || run != nil {
		return run, err
	}

	if len(key) < 4 {
		return nil, nil
	}
	recent, err := store.ListRecent(200)
	if err != nil {
		return nil, err
	}
	var match *history.RunRecord
	for i := range recent {
		if strings.HasPrefix(recent[i].RunID, key) {
			if match != nil {
				return nil, fmt.Errorf("run id prefix %q is ambiguous", key)
			}
			match = &recent[i]
		}
	}
	return match, nil
}
