package runbook

import (
	"fmt"

	"nathanbeddoewebdev/conform/internal/runbook"

	"github.com/spf13/cobra"
)

func LintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [runbook]",
		Short: "Check a runbook's structure",
		Long: `Parse a runbook and report structural problems: missing solution
or templates, unknown layers, references to undeclared projects,
layering violations, and reference cycles.

The exit code is nonzero when any problem is an error.

Examples:
  conform runbook lint
  conform runbook lint docs/migration.md`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLint,
		SilenceUsage: true,
	}
	return cmd
}

func runLint(cmd *cobra.Command, args []string) error {
	path, err := resolveRunbookArg(args)
	if err != nil {
		return err
	}

	bp, err := runbook.Load(path)
	if err != nil {
		return err
	}

	problems := runbook.Lint(bp)
	if len(problems) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no problems found.\n", path)
		return nil
	}

	for _, p := range problems {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s: %s\n", path, p.Severity, p.Message)
	}
	if runbook.HasErrors(problems) {
		return fmt.Errorf("%s has structural errors", path)
	}
	return nil
}
