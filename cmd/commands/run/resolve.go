package run

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/conform/internal/config"
	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/runbook"
	"nathanbeddoewebdev/conform/internal/services/auth"
	"nathanbeddoewebdev/conform/internal/services/doctor"
	prefssvc "nathanbeddoewebdev/conform/internal/services/targetprefs"
	"nathanbeddoewebdev/conform/internal/swrcache"
	"nathanbeddoewebdev/conform/internal/targetprefs"
	"nathanbeddoewebdev/conform/internal/toolchains"
	"nathanbeddoewebdev/conform/internal/tui"

	"github.com/spf13/cobra"
)

// selection is a fully resolved set of run inputs.
type selection struct {
	RunbookPath string
	Target      string
	Toolchain   string
	Blueprint   *runbook.Blueprint
}

// addRunFlags registers the flags shared by run, check, and plan.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("runbook", "r", "", "Path to the runbook markdown file")
	cmd.Flags().StringP("target", "t", ".", "Target directory to transform")
	cmd.Flags().String("toolchain", "", "Toolchain to drive (e.g. dotnet)")
}

// resolve fills runbook, target, and toolchain from flags, remembered
// target preferences, config defaults, and runbook discovery, in that
// order. When something is still missing it falls back to the wizard
// if interactive is true, and errors otherwise.
func resolve(cmd *cobra.Command, interactive bool) (*selection, error) {
	targetFlag, _ := cmd.Flags().GetString("target")
	target, err := filepath.Abs(strings.TrimSpace(targetFlag))
	if err != nil {
		return nil, fmt.Errorf("cannot resolve target %q: %w", targetFlag, err)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("target %s is not a directory", target)
	}

	runbookPath, _ := cmd.Flags().GetString("runbook")
	runbookPath = strings.TrimSpace(runbookPath)
	if runbookPath != "" {
		if runbookPath, err = filepath.Abs(runbookPath); err != nil {
			return nil, fmt.Errorf("cannot resolve runbook path: %w", err)
		}
	}

	toolchain, _ := cmd.Flags().GetString("toolchain")
	toolchain = strings.TrimSpace(toolchain)

	// Remembered per-target preferences fill gaps before config does.
	remembered := rememberedPrefs(target)
	if runbookPath == "" && remembered != nil {
		runbookPath = remembered.Runbook
	}
	if toolchain == "" && remembered != nil {
		toolchain = remembered.Toolchain
	}

	cfg, cfgErr := config.Load()
	if runbookPath == "" && cfgErr == nil && cfg.DefaultRunbook != "" {
		// A relative configured default is anchored at the target.
		runbookPath = cfg.DefaultRunbook
		if !filepath.IsAbs(runbookPath) {
			runbookPath = filepath.Join(target, runbookPath)
		}
	}
	if toolchain == "" && cfgErr == nil {
		toolchain = cfg.DefaultToolchain
	}

	if runbookPath == "" {
		runbookPath = discoverSingle(target)
	}
	if toolchain == "" {
		if names := toolchains.List(); len(names) == 1 {
			toolchain = names[0]
		}
	}

	if runbookPath == "" || toolchain == "" {
		if !interactive {
			return nil, missingInputError(runbookPath, toolchain)
		}
		choice, err := tui.RunForm(wizardCatalog{root: target}, tui.RunChoice{
			Runbook:   runbookPath,
			Target:    target,
			Toolchain: toolchain,
		})
		if err != nil {
			return nil, err
		}
		runbookPath = choice.Runbook
		toolchain = choice.Toolchain
		if target, err = filepath.Abs(choice.Target); err != nil {
			return nil, fmt.Errorf("cannot resolve target %q: %w", choice.Target, err)
		}
	}

	bp, err := runbook.Load(runbookPath)
	if err != nil {
		return nil, err
	}

	return &selection{
		RunbookPath: runbookPath,
		Target:      target,
		Toolchain:   toolchain,
		Blueprint:   bp,
	}, nil
}

// rememberedPrefs is best effort: a broken history database never
// blocks a run.
func rememberedPrefs(target string) *targetprefs.TargetPrefs {
	repo, err := targetprefs.Open()
	if err != nil {
		return nil
	}
	svc := prefssvc.NewService(repo)
	defer svc.Close()
	return svc.Remembered(target)
}

// discoverSingle returns the runbook path when the target tree holds
// exactly one; ambiguity is left to the wizard or an explicit flag.
func discoverSingle(target string) string {
	summaries, err := runbook.Discover(target)
	if err != nil || len(summaries) != 1 {
		return ""
	}
	return summaries[0].Path
}

func missingInputError(runbookPath, toolchain string) error {
	missing := make([]string, 0, 2)
	if runbookPath == "" {
		missing = append(missing, "--runbook")
	}
	if toolchain == "" {
		missing = append(missing, "--toolchain")
	}
	return fmt.Errorf("%s required in non-interactive mode", strings.Join(missing, " and "))
}

// wizardCatalog adapts the registry and discovery to the wizard.
type wizardCatalog struct {
	root string
}

func (c wizardCatalog) DiscoverRunbooks() ([]runbook.Summary, error) {
	return runbook.Discover(c.root)
}

func (c wizardCatalog) Toolchains() []string {
	return toolchains.List()
}

// Probe serves probes through the doctor's cache so reopening the
// wizard does not respawn every toolchain.
func (c wizardCatalog) Probe(ctx context.Context, name string) (*domain.ToolchainInfo, error) {
	tc, err := toolchains.Get(name, c.root, auth.DefaultStore())
	if err != nil {
		return nil, err
	}
	return doctor.NewService(swrcache.NewDefault(), nil).Probe(ctx, tc)
}

// rememberSelection stores the resolved inputs for the next run
// against the same target. Best effort.
func rememberSelection(sel *selection) {
	repo, err := targetprefs.Open()
	if err != nil {
		return
	}
	svc := prefssvc.NewService(repo)
	defer svc.Close()
	svc.Remember(sel.Target, sel.RunbookPath, sel.Toolchain)
}
