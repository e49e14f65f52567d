package run

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nathanbeddoewebdev/conform/internal/auditlog"
	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/journal"
	"nathanbeddoewebdev/conform/internal/runbook"
	"nathanbeddoewebdev/conform/internal/runner"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/toolchains"
	"nathanbeddoewebdev/conform/internal/tui"
	"nathanbeddoewebdev/conform/internal/watcher"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// CheckCommand returns the "check" command.
func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the validation phase without changing the tree",
		Long: `Run only the validation phase of a runbook: probe the toolchain,
parse the runbook, and compare the target tree against the declared
layout. Nothing is modified; findings are journaled like any run.

With --watch the check re-runs whenever a relevant file under the
target changes, until interrupted.

Examples:
  conform check -r docs/runbook.md -t .
  conform check --watch
  conform check --watch --settle 1s`,
		Args:         cobra.ExactArgs(0),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	addRunFlags(cmd)
	cmd.Flags().Bool("watch", false, "Re-run the check when the target tree changes")
	cmd.Flags().Duration("settle", 400*time.Millisecond, "Quiet period before a watched change triggers a re-check")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	sel, err := resolve(cmd, isTTY)
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

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return checkOnce(cmd, sel, tc)
	}

	settle, _ := cmd.Flags().GetDuration("settle")
	return watchLoop(cmd, sel, tc, settle)
}

// checkOnce executes a single validation pass with its own run id and
// journal.
func checkOnce(cmd *cobra.Command, sel *selection, tc domain.Toolchain) error {
	runID := uuid.New().String()
	info := journal.RunInfo{
		RunID:     runID,
		Runbook:   sel.RunbookPath,
		Target:    sel.Target,
		Toolchain: sel.Toolchain,
		Started:   time.Now(),
	}

	jw, err := journal.Create(journal.JournalPath(sel.Target, runID), info)
	if err != nil {
		return err
	}
	defer jw.Close()

	cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Toolchain: sel.Toolchain,
		Runbook:   sel.RunbookPath,
		Target:    sel.Target,
		RunID:     runID,
	}))

	res, err := runner.New(runner.Options{
		Blueprint: sel.Blueprint,
		Target:    sel.Target,
		Toolchain: tc,
		Journal:   jw,
		Summary:   journal.SummaryPath(sel.Target, runID),
		Info:      info,
		Observer:  runner.WriterObserver{W: cmd.ErrOrStderr()},
		CheckOnly: true,
	}).Run(cmd.Context())

	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Check %s: %d steps, %d warnings, %d failures\n",
			res.Status, res.Steps, res.Warnings, res.Failures)
	}
	return err
}

// watchLoop checks once, then re-checks after every settled batch of
// tree changes. A failing check keeps the loop alive; only an
// interrupt or a watcher error ends it.
func watchLoop(cmd *cobra.Command, sel *selection, tc domain.Toolchain, settle time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(sel.Target, sel.RunbookPath)
	if err != nil {
		return err
	}
	defer w.Close()
	w.SetSettle(settle)

	if err := w.Start(ctx); err != nil {
		return err
	}

	if err := checkOnce(cmd, sel, tc); err != nil && !errors.Is(err, domain.ErrRunFailed) {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for changes. Press ctrl+c to stop.")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "Watch stopped.")
			return nil
		case change, ok := <-w.Changes():
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%d change(s) detected, re-checking...\n", len(change.Paths))

			// The runbook may be among the changed files.
			bp, err := runbook.Load(sel.RunbookPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "runbook unreadable: %v\n", err)
				continue
			}
			sel.Blueprint = bp

			if err := checkOnce(cmd, sel, tc); err != nil && !errors.Is(err, domain.ErrRunFailed) {
				return err
			}
		}
	}
}
