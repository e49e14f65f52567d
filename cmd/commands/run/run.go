package run

import (
	"errors"
	"fmt"
	"os"
	"time"

	"nathanbeddoewebdev/conform/internal/auditlog"
	"nathanbeddoewebdev/conform/internal/history"
	"nathanbeddoewebdev/conform/internal/journal"
	"nathanbeddoewebdev/conform/internal/runner"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/toolchains"
	"nathanbeddoewebdev/conform/internal/tui"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// RunCommand returns the "run" command.
func RunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a runbook against a target tree",
		Long: `Execute every phase of a runbook against a target tree.

The run walks validate, structure, packages, references, build, and
test in order, appending one journal entry per action under the
target's .conform directory. A failed action gets one documented
remediation attempt; an unresolved failure aborts the run.

When --runbook or --toolchain is missing and stdout is a terminal, an
interactive wizard collects them.

Examples:
  conform run
  conform run --runbook docs/runbook.md --target ~/src/contoso
  conform run -r runbook.md -t . --toolchain dotnet --plain`,
		Args:         cobra.ExactArgs(0),
		RunE:         runRun,
		SilenceUsage: true,
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("plain", false, "Line output instead of the full-screen progress view")
	cmd.Flags().BoolP("yes", "y", false, "Never prompt; fail if flags are incomplete")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	plain, _ := cmd.Flags().GetBool("plain")
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	sel, err := resolve(cmd, isTTY && !yes)
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
		return err
	}

	tc, err := toolchains.Get(sel.Toolchain, sel.Target, auth.DefaultStore())
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	info := journal.RunInfo{
		RunID:     runID,
		Runbook:   sel.RunbookPath,
		Target:    sel.Target,
		Toolchain: sel.Toolchain,
		Started:   time.Now(),
	}

	journalPath := journal.JournalPath(sel.Target, runID)
	summaryPath := journal.SummaryPath(sel.Target, runID)
	jw, err := journal.Create(journalPath, info)
	if err != nil {
		return err
	}
	defer jw.Close()

	record := startHistoryRecord(sel, info, journalPath, summaryPath)

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Toolchain: sel.Toolchain,
		Runbook:   sel.RunbookPath,
		Target:    sel.Target,
		RunID:     runID,
	}))

	opts := runner.Options{
		Blueprint: sel.Blueprint,
		Target:    sel.Target,
		Toolchain: tc,
		Journal:   jw,
		Summary:   summaryPath,
		Info:      info,
	}

	var res *runner.Result
	var runErr error
	if isTTY && !plain {
		res, runErr = tui.RunProgress(cmd.Context(), opts)
	} else {
		opts.Observer = runner.WriterObserver{W: cmd.ErrOrStderr()}
		res, runErr = runner.New(opts).Run(cmd.Context())
	}

	finishHistoryRecord(record, res)
	rememberSelection(sel)

	if errors.Is(runErr, tui.ErrAborted) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
		return nil
	}
	printRunResult(cmd, res)
	return runErr
}

// startHistoryRecord inserts the run with status "running" so an
// interrupted process stays visible. Best effort.
func startHistoryRecord(sel *selection, info journal.RunInfo, journalPath, summaryPath string) *history.RunRecord {
	store, err := history.Open()
	if err != nil {
		return nil
	}
	defer store.Close()

	record := &history.RunRecord{
		RunID:       info.RunID,
		Runbook:     sel.RunbookPath,
		Target:      sel.Target,
		Toolchain:   sel.Toolchain,
		Solution:    sel.Blueprint.Solution,
		Status:      history.StatusRunning,
		JournalPath: journalPath,
		SummaryPath: summaryPath,
		StartedAt:   info.Started,
	}
	if err := store.Save(record); err != nil {
		return nil
	}
	return record
}

// finishHistoryRecord updates the row with the final counts. Best effort.
func finishHistoryRecord(record *history.RunRecord, res *runner.Result) {
	if record == nil || res == nil {
		return
	}
	store, err := history.Open()
	if err != nil {
		return
	}
	defer store.Close()

	record.Status = res.Status
	record.Steps = res.Steps
	record.Warnings = res.Warnings
	record.Failures = res.Failures
	record.DurationMs = res.Duration.Milliseconds()
	_ = store.Save(record)
}

func printRunResult(cmd *cobra.Command, res *runner.Result) {
	if res == nil {
		return
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nRun %s %s in %s\n", shortRunID(res.RunID), res.Status, res.Duration.Round(time.Second))
	fmt.Fprintf(out, "  Steps: %d  Warnings: %d  Failures: %d\n", res.Steps, res.Warnings, res.Failures)
	fmt.Fprintf(out, "  Journal: %s\n", res.JournalPath)
	if res.Failures > 0 {
		fmt.Fprintf(out, "  Errors:  %s\n", res.SummaryPath)
		for _, rec := range res.Records {
			fmt.Fprintf(out, "    - %s (%s)\n", rec.Title, rec.Phase)
		}
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
