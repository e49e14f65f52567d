package history

import (
	"fmt"
	"os"

	"nathanbeddoewebdev/conform/internal/history"
	"nathanbeddoewebdev/conform/internal/tui/components"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// trendWindow is how many recent runs feed the duration sparkline.
const trendWindow = 30

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded runs",
		Long: `Summarize recorded runs: totals by status and the duration trend
of recent runs.

Examples:
  conform history stats`,
		RunE:         runStats,
		SilenceUsage: true,
	}
	return cmd
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats()
	if err != nil {
		return err
	}
	if stats.Total == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	recent, err := store.ListRecent(trendWindow)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Runs:     %d total (%d succeeded, %d failed, %d running)\n",
		stats.Total, stats.Succeeded, stats.Failed, stats.Running)
	if finished := stats.Succeeded + stats.Failed; finished > 0 {
		rate := float64(stats.Succeeded) / float64(finished) * 100
		fmt.Fprintf(out, "Success:  %.1f%% of %d finished runs\n", rate, finished)
	}
	fmt.Fprintf(out, "Steps:    %d executed, %d failures recorded\n", stats.Steps, stats.Failures)

	durations := durationSeconds(recent)
	if len(durations) > 0 {
		width, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || width <= 0 {
			width = 80
		}
		label := fmt.Sprintf("Run duration, last %d runs", len(durations))
		fmt.Fprintln(out)
		fmt.Fprintln(out, components.RunSparkline(label, durations, width, "s"))
	}
	return nil
}

// durationSeconds extracts finished-run durations oldest first, the
// order the sparkline plots them in.
func durationSeconds(runs []history.RunRecord) []float64 {
	var out []float64
	for i := len(runs) - 1; i >= 0; i-- {
		if !runs[i].Finished() {
			continue
		}
		out = append(out, float64(runs[i].DurationMs)/1000)
	}
	return out
}
