package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"nathanbeddoewebdev/conform/cmd/commands/audit"
	"nathanbeddoewebdev/conform/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/conform/cmd/commands/config"
	"nathanbeddoewebdev/conform/cmd/commands/doctor"
	"nathanbeddoewebdev/conform/cmd/commands/history"
	journalcmd "nathanbeddoewebdev/conform/cmd/commands/journal"
	"nathanbeddoewebdev/conform/cmd/commands/run"
	runbookcmd "nathanbeddoewebdev/conform/cmd/commands/runbook"
	"nathanbeddoewebdev/conform/internal/auditlog"
	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/diag"
	"nathanbeddoewebdev/conform/internal/toolchains"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "conform",
		Short: "A guided transformation runner for solution trees",
		Long: `conform reads a markdown runbook describing a target solution layout
and walks a file tree through fixed phases (validate, structure,
packages, references, build, test), journaling every action it takes.

A failed action halts its phase, is recorded with expected and actual
results, gets at most one documented remediation attempt, and either
resumes the phase or aborts the run.

Quick start:
  conform run                            # wizard: pick runbook and toolchain
  conform run -r docs/runbook.md -t .    # non-interactive run
  conform check --watch                  # re-validate on every change
  conform history list                   # inspect past runs
  conform doctor                         # check toolchain and environment`,
	}

	cmd.PersistentFlags().Bool("debug", false, "Write diagnostic logs to the user config directory")
	cmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		debug, _ := c.Flags().GetBool("debug")
		if !debug {
			if cfg, err := config.Load(); err == nil {
				debug = cfg.Debug
			}
		}
		if debug {
			if _, err := diag.Enable(); err != nil {
				fmt.Fprintf(c.ErrOrStderr(), "debug logging unavailable: %v\n", err)
			}
		}
		return nil
	}

	cmd.AddCommand(run.RunCommand())
	cmd.AddCommand(run.CheckCommand())
	cmd.AddCommand(run.PlanCommand())
	cmd.AddCommand(runbookcmd.NewCommand())
	cmd.AddCommand(journalcmd.NewCommand())
	cmd.AddCommand(history.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(doctor.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	toolchains.RegisterDotnet()
	defer diag.Sync()

	start := time.Now()
	root := rootCmd()
	executed, err := root.ExecuteContextC(context.Background())
	recordAudit(executed, err, start)
	if err != nil {
		os.Exit(1)
	}
}

// recordAudit writes one best-effort audit entry per invocation.
// Failures to open or save the repository are silently discarded;
// auditing must never break the command it describes.
func recordAudit(cmd *cobra.Command, runErr error, start time.Time) {
	if cmd == nil || skipAudit(cmd) {
		return
	}

	repo, err := auditlog.Open()
	if err != nil {
		return
	}
	defer repo.Close()

	md := auditlog.MetadataFromContext(cmd.Context())
	entry := &auditlog.AuditEntry{
		Timestamp:  start,
		Command:    cmd.CommandPath(),
		Args:       strings.Join(auditlog.SanitizeArgs(os.Args[1:]), " "),
		Toolchain:  md.Toolchain,
		Runbook:    md.Runbook,
		Target:     md.Target,
		RunID:      md.RunID,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if runErr != nil {
		entry.Outcome = auditlog.OutcomeError
		entry.Detail = runErr.Error()
	} else {
		entry.Outcome = auditlog.OutcomeSuccess
	}
	_ = repo.Save(entry)
}

// skipAudit excludes invocations that only inspect the audit trail or
// never reached a real command.
func skipAudit(cmd *cobra.Command) bool {
	if !cmd.HasParent() {
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "audit", "help", "completion", "__complete", "__completeNoDesc":
			return true
		}
	}
	return false
}
