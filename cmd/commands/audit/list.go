package audit

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/conform/internal/auditlog"
	"nathanbeddoewebdev/conform/internal/util"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List recent audit entries stored locally.

Examples:
  conform audit list
  conform audit list --limit 50
  conform audit list --command "conform run"
  conform audit list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Int("limit", 25, "Number of entries to display")
	cmd.Flags().String("command", "", "Filter by exact command path")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}

	filter, _ := cmd.Flags().GetString("command")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	repo, err := auditlog.Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	var entries []auditlog.AuditEntry
	if filter != "" {
		entries, err = repo.ListByCommand(filter, limit)
	} else {
		entries, err = repo.List(limit)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if output != "table" {
		return fmt.Errorf("unsupported output format %q", output)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOMMAND\tOUTCOME\tDURATION\tCONTEXT\tDETAIL")
	fmt.Fprintln(w, "----\t-------\t-------\t--------\t-------\t------")
	for _, entry := range entries {
		timeStr := entry.Timestamp.Local().Format("2006-01-02 15:04:05")
		detail := entry.Detail
		if detail == "" {
			detail = "-"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			timeStr,
			entry.Command,
			entry.Outcome,
			util.FormatDurationMs(entry.DurationMs),
			formatContext(entry),
			detail,
		)
	}
	w.Flush()
	return nil
}

// formatContext condenses the run context columns into one cell. Most
// entries carry no context at all; runs carry toolchain and a short
// run id.
func formatContext(entry auditlog.AuditEntry) string {
	if entry.Toolchain == "" && entry.Target == "" && entry.RunID == "" {
		return "-"
	}

	context := entry.Toolchain
	if entry.Target != "" {
		if context != "" {
			context += ":" + entry.Target
		} else {
			context = entry.Target
		}
	}
	if entry.RunID != "" {
		id := entry.RunID
		if len(id) > 8 {
			id = id[:8]
		}
		if context != "" {
			context += " (" + id + ")"
		} else {
			context = id
		}
	}
	return context
}
