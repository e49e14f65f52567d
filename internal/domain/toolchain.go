package domain

import (
	"context"
	"strings"
	"time"
)

// Toolchain executes build-system commands against a target tree.
// Implementations shell out to the real tool; tests substitute fakes.
// Methods return the raw command result even on a non-zero exit so the
// runner can compare actual output against the runbook's expectations.
type Toolchain interface {
	// Name returns the registry name, e.g. "dotnet".
	Name() string

	// Probe reports tool availability and version information.
	Probe(ctx context.Context) (*ToolchainInfo, error)

	// NewSolution creates an empty solution file named name in dir.
	NewSolution(ctx context.Context, dir string, name string) (*CommandResult, error)

	// NewProject scaffolds a project from a template.
	NewProject(ctx context.Context, opts NewProjectOptions) (*CommandResult, error)

	// AddToSolution registers an existing project in the solution file.
	AddToSolution(ctx context.Context, solution string, project string) (*CommandResult, error)

	// AddPackage installs a package dependency into a project.
	AddPackage(ctx context.Context, project string, pkg PackageRef) (*CommandResult, error)

	// AddReference wires a reference from one project to another.
	AddReference(ctx context.Context, from string, to string) (*CommandResult, error)

	// ClearPackageCache drops the tool's local package cache. Used as
	// a documented remediation for restore failures.
	ClearPackageCache(ctx context.Context) (*CommandResult, error)

	// Restore resolves declared dependencies for the solution under
	// dir without compiling.
	Restore(ctx context.Context, dir string) (*CommandResult, error)

	// Build compiles the solution under dir.
	Build(ctx context.Context, dir string) (*CommandResult, error)

	// Test runs the solution's test suites under dir.
	Test(ctx context.Context, dir string) (*CommandResult, error)
}

// ToolchainInfo describes a probed toolchain installation.
type ToolchainInfo struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	SDKs      []string  `json:"sdks,omitempty"`
	Templates []string  `json:"templates,omitempty"`
	ProbedAt  time.Time `json:"probed_at"`
}

// NewProjectOptions carries everything a toolchain needs to scaffold
// one project.
type NewProjectOptions struct {
	Name     string // project name, e.g. "Contoso.Domain"
	Template string // toolchain template, e.g. "classlib"
	Dir      string // output directory relative to the target root
}

// CommandResult is the raw outcome of one toolchain command.
type CommandResult struct {
	Line     string        `json:"line"` // full command line as run
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Ok reports whether the command ran and exited zero.
func (r *CommandResult) Ok() bool {
	return r != nil && r.ExitCode == 0
}

// Combined returns stdout and stderr joined for matching and display.
func (r *CommandResult) Combined() string {
	if r == nil {
		return ""
	}
	out := strings.TrimSpace(r.Stdout)
	errOut := strings.TrimSpace(r.Stderr)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	default:
		return out + "\n" + errOut
	}
}
