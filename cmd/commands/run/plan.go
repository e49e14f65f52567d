package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/conform/internal/runner"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/toolchains"
	"nathanbeddoewebdev/conform/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PlanCommand returns the "plan" command.
func PlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would do without executing anything",
		Long: `Compute every phase's actions from the runbook and the current
target tree without running any of them. Later phases are planned
against the same snapshot; a real run refreshes it between phases, so
counts can differ once earlier phases change the tree.

Examples:
  conform plan -r docs/runbook.md -t .
  conform plan -o json`,
		Args:         cobra.ExactArgs(0),
		RunE:         runPlan,
		SilenceUsage: true,
	}

	addRunFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")

	return cmd
}

// plannedAction is the JSON-safe view of one planned action.
type plannedAction struct {
	Phase    string   `json:"phase"`
	Name     string   `json:"name"`
	Intent   string   `json:"intent"`
	Expected string   `json:"expected,omitempty"`
	Files    []string `json:"files,omitempty"`
}

func runPlan(cmd *cobra.Command, args []string) error {
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

	r := runner.New(runner.Options{
		Blueprint: sel.Blueprint,
		Target:    sel.Target,
		Toolchain: tc,
	})
	plans, err := r.Plan()
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	switch output {
	case "json":
		flat := make([]plannedAction, 0)
		for _, pp := range plans {
			for _, a := range pp.Actions {
				flat = append(flat, plannedAction{
					Phase:    pp.Phase,
					Name:     a.Name,
					Intent:   a.Intent,
					Expected: a.Expected,
					Files:    a.Files,
				})
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(flat)
	case "text", "":
		printPlanText(cmd, plans)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

func printPlanText(cmd *cobra.Command, plans []runner.PhasePlan) {
	out := cmd.OutOrStdout()
	total := 0
	for _, pp := range plans {
		if len(pp.Actions) == 0 {
			fmt.Fprintf(out, "== %s: nothing to do\n", pp.Phase)
			continue
		}
		fmt.Fprintf(out, "== %s (%d actions)\n", pp.Phase, len(pp.Actions))
		for _, a := range pp.Actions {
			fmt.Fprintf(out, "  - %s: %s\n", a.Name, a.Intent)
			if len(a.Files) > 0 {
				fmt.Fprintf(out, "      files: %s\n", strings.Join(a.Files, ", "))
			}
		}
		total += len(pp.Actions)
	}
	fmt.Fprintf(out, "%d action(s) planned.\n", total)
}
