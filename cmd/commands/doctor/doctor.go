package doctor

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/runbook"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/services/doctor"
	"nathanbeddoewebdev/conform/internal/swrcache"
	"nathanbeddoewebdev/conform/internal/toolchains"

	"github.com/spf13/cobra"
)

// NewCommand returns the "doctor" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Probe the environment",
		Long: `Probe the environment conform depends on: toolchain presence and
version, installed SDKs and templates, configuration, the local
database, and the package-feed credential.

Probes are cached; pass --refresh to force fresh ones.

Examples:
  conform doctor
  conform doctor --refresh
  conform doctor --runbook docs/migration.md
  conform doctor -o json`,
		RunE:         runDoctor,
		SilenceUsage: true,
	}

	cmd.Flags().String("toolchain", "", "Toolchain to probe (defaults to the configured one)")
	cmd.Flags().StringP("runbook", "r", "", "Check the templates this runbook needs")
	cmd.Flags().Bool("refresh", false, "Drop cached probes first")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runDoctor(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("toolchain")
	runbookPath, _ := cmd.Flags().GetString("runbook")
	refresh, _ := cmd.Flags().GetBool("refresh")
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = "table"
	}

	if name == "" {
		if cfg, err := config.Load(); err == nil {
			name = cfg.DefaultToolchain
		}
	}
	if name == "" {
		if registered := toolchains.List(); len(registered) == 1 {
			name = registered[0]
		}
	}
	if name == "" {
		return fmt.Errorf("no toolchain selected; pass --toolchain or set default-toolchain")
	}

	tc, err := toolchains.Get(name, ".", auth.DefaultStore())
	if err != nil {
		return err
	}

	var templates []string
	if runbookPath != "" {
		bp, err := runbook.Load(runbookPath)
		if err != nil {
			return err
		}
		templates = bp.Templates()
	}

	svc := doctor.NewService(swrcache.NewDefault(), auth.DefaultStore())
	if refresh {
		if err := svc.Refresh(); err != nil {
			return err
		}
	}

	report := svc.Diagnose(cmd.Context(), tc, templates)

	switch output {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return err
		}
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHECK\tSTATUS\tDETAIL")
		fmt.Fprintln(w, "-----\t------\t------")
		for _, c := range report.Checks {
			detail := c.Detail
			if detail == "" {
				detail = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, c.Status, detail)
		}
		w.Flush()
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}

	if report.Failed() {
		return fmt.Errorf("environment checks failed")
	}
	return nil
}
