package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/runbook"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"golang.org/x/sync/errgroup"
)

// ErrAborted is returned when a user cancels the interactive flow.
var ErrAborted = errors.New("run aborted by user")

// RunChoice holds the options collected by the run wizard.
type RunChoice struct {
	Runbook   string
	Target    string
	Toolchain string
}

// Catalog supplies the data the run wizard offers for selection.
type Catalog interface {
	DiscoverRunbooks() ([]runbook.Summary, error)
	Toolchains() []string
	Probe(ctx context.Context, name string) (*domain.ToolchainInfo, error)
}

type wizardData struct {
	runbooks   []runbook.Summary
	toolchains []toolchainStatus
}

type toolchainStatus struct {
	name    string
	version string
	err     error
}

// RunForm runs an interactive wizard that collects run options.
// It discovers runbooks and probes toolchains up front, then walks the
// user through selection. Unavailable toolchains stay selectable; the
// run's validate phase reports the failure with full detail.
func RunForm(catalog Catalog, prefill RunChoice) (*RunChoice, error) {
	accessible := os.Getenv("ACCESSIBLE") != ""

	// Fetch runbooks and toolchain probes concurrently in a single spinner.
	var data wizardData
	fetchErr := spinner.New().
		Title("Scanning for runbooks...").
		Accessible(accessible).
		Output(os.Stderr).
		ActionWithErr(func(ctx context.Context) error {
			var err error
			data, err = fetchWizardData(ctx, catalog)
			return err
		}).
		Run()
	if fetchErr != nil {
		if errors.Is(fetchErr, huh.ErrUserAborted) || errors.Is(fetchErr, context.Canceled) {
			return nil, ErrAborted
		}
		return nil, fetchErr
	}

	if len(data.runbooks) == 0 && prefill.Runbook == "" {
		return nil, fmt.Errorf("no runbooks found; pass one with --runbook")
	}
	if len(data.toolchains) == 0 {
		return nil, fmt.Errorf("no toolchains registered")
	}

	choice := prefill

	// --- Form 1: Runbook + Target ---

	runbookOpts, runbookLabels := buildRunbookOptions(data.runbooks, choice.Runbook)

	runbookField := huh.NewSelect[string]().
		Title("Runbook").
		Options(runbookOpts...).
		Value(&choice.Runbook).
		Height(selectHeight(len(runbookOpts), 10)).
		Validate(huh.ValidateNotEmpty())

	targetField := huh.NewInput().
		Title("Target directory").
		Value(&choice.Target).
		Validate(func(value string) error {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return errors.New("target is required")
			}
			info, err := os.Stat(trimmed)
			if err != nil {
				return fmt.Errorf("cannot read %s", trimmed)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", trimmed)
			}
			return nil
		})

	if err := runForm(accessible,
		huh.NewGroup(runbookField),
		huh.NewGroup(targetField),
	); err != nil {
		return nil, err
	}

	// --- Form 2: Toolchain + Confirm ---

	toolchainOpts, toolchainLabels := buildToolchainOptions(data.toolchains, choice.Toolchain)

	toolchainField := huh.NewSelect[string]().
		Title("Toolchain").
		Options(toolchainOpts...).
		Value(&choice.Toolchain).
		Height(selectHeight(len(toolchainOpts), 8)).
		Validate(huh.ValidateNotEmpty())

	confirm := false
	summaryNote := huh.NewNote().
		Title("Summary").
		DescriptionFunc(func() string {
			s := choice
			s.Target = strings.TrimSpace(s.Target)
			return buildRunSummary(s, runbookLabels, toolchainLabels)
		}, &choice)

	confirmField := huh.NewConfirm().
		Title("Start this run?").
		Value(&confirm)

	if err := runForm(accessible,
		huh.NewGroup(toolchainField),
		huh.NewGroup(summaryNote, confirmField),
	); err != nil {
		return nil, err
	}

	if !confirm {
		return nil, ErrAborted
	}

	choice.Target = strings.TrimSpace(choice.Target)
	return &choice, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// fetchWizardData discovers runbooks and probes all registered toolchains
// concurrently.
func fetchWizardData(ctx context.Context, catalog Catalog) (wizardData, error) {
	var data wizardData
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data.runbooks, err = catalog.DiscoverRunbooks()
		if err != nil {
			return fmt.Errorf("failed to discover runbooks: %w", err)
		}
		return nil
	})

	names := catalog.Toolchains()
	data.toolchains = make([]toolchainStatus, len(names))
	for i, name := range names {
		g.Go(func() error {
			info, err := catalog.Probe(ctx, name)
			if err != nil {
				data.toolchains[i] = toolchainStatus{name: name, err: err}
				return nil
			}
			data.toolchains[i] = toolchainStatus{name: name, version: info.Version}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return wizardData{}, err
	}
	return data, nil
}

// --- Option builders ---

func buildRunbookOptions(runbooks []runbook.Summary, selected string) ([]huh.Option[string], map[string]string) {
	options := make([]huh.Option[string], 0, len(runbooks))
	labels := make(map[string]string, len(runbooks))

	for _, rb := range runbooks {
		value := rb.Path
		label := runbookLabel(rb)
		options = append(options, huh.NewOption(label, value))
		labels[value] = label
	}

	if selected != "" {
		options = ensureOption(options, labels, selected, "Custom: "+selected)
	}

	return options, labels
}

func buildToolchainOptions(statuses []toolchainStatus, selected string) ([]huh.Option[string], map[string]string) {
	options := make([]huh.Option[string], 0, len(statuses))
	labels := make(map[string]string, len(statuses))

	for _, ts := range statuses {
		label := toolchainLabel(ts)
		options = append(options, huh.NewOption(label, ts.name))
		labels[ts.name] = label
	}

	if selected != "" {
		options = ensureOption(options, labels, selected, "Custom: "+selected)
	}

	return options, labels
}

func ensureOption(options []huh.Option[string], labels map[string]string, value string, label string) []huh.Option[string] {
	if value == "" {
		return options
	}
	if _, ok := labels[value]; ok {
		return options
	}
	options = append(options, huh.NewOption(label, value))
	labels[value] = label
	return options
}

// --- Summary ---

func buildRunSummary(choice RunChoice, runbookLabels, toolchainLabels map[string]string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Runbook: %s\n", labelFor(runbookLabels, choice.Runbook, "Not selected"))
	fmt.Fprintf(&b, "Target: %s\n", valueOr(choice.Target, "Not selected"))
	fmt.Fprintf(&b, "Toolchain: %s\n", labelFor(toolchainLabels, choice.Toolchain, "Not selected"))

	return strings.TrimSpace(b.String())
}

// --- Label helpers ---

func runbookLabel(rb runbook.Summary) string {
	name := rb.Title
	if name == "" {
		name = filepath.Base(rb.Path)
	}
	label := name
	if rb.Solution != "" {
		label = name + " - " + rb.Solution
	}
	if rel := displayPath(rb.Path); rel != "" {
		label += " (" + rel + ")"
	}
	return label
}

func toolchainLabel(ts toolchainStatus) string {
	if ts.err != nil {
		return ts.name + " - not available"
	}
	if ts.version == "" {
		return ts.name
	}
	return ts.name + " - " + ts.version
}

// displayPath shortens a runbook path relative to the working directory
// when that makes it shorter.
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

func labelFor(labels map[string]string, value string, emptyLabel string) string {
	if value == "" {
		return emptyLabel
	}
	if labels != nil {
		if label, ok := labels[value]; ok {
			return label
		}
	}
	return value
}

func valueOr(value string, emptyLabel string) string {
	if strings.TrimSpace(value) == "" {
		return emptyLabel
	}
	return value
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
