package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/tree"
)

// buildCompliantTree drives the fake toolchain directly to produce a
// tree that already satisfies the blueprint.
func buildCompliantTree(t *testing.T, tc *fakeToolchain) {
	t.Helper()
	ctx := context.Background()
	bp := testBlueprint()
	if _, err := tc.NewSolution(ctx, ".", bp.Solution); err != nil {
		t.Fatalf("NewSolution: %v", err)
	}
	for _, p := range bp.Projects {
		if _, err := tc.NewProject(ctx, domain.NewProjectOptions{
			Name: p.Name, Template: p.Template, Dir: p.Directory(),
		}); err != nil {
			t.Fatalf("NewProject %s: %v", p.Name, err)
		}
		if _, err := tc.AddToSolution(ctx, bp.Solution+".sln", tree.ProjectFile(p)); err != nil {
			t.Fatalf("AddToSolution %s: %v", p.Name, err)
		}
	}
	for _, pkg := range bp.Packages {
		spec, _ := bp.Project(pkg.Project)
		if _, err := tc.AddPackage(ctx, tree.ProjectFile(spec), pkg); err != nil {
			t.Fatalf("AddPackage %s: %v", pkg.ID, err)
		}
	}
	for _, ref := range bp.References {
		from, _ := bp.Project(ref.From)
		to, _ := bp.Project(ref.To)
		if _, err := tc.AddReference(ctx, tree.ProjectFile(from), tree.ProjectFile(to)); err != nil {
			t.Fatalf("AddReference %s: %v", ref.From, err)
		}
	}
	tc.calls = nil
}

func snapshotOf(t *testing.T, target string) *tree.Snapshot {
	t.Helper()
	snap, err := tree.Take(target, "Contoso")
	if err != nil {
		t.Fatalf("tree.Take: %v", err)
	}
	return snap
}

func actionNames(actions []Action) []string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return names
}

func TestPlan_EmptyTree(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	plans, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := map[string]int{
		PhaseValidate:   5,
		PhaseStructure:  5,
		PhasePackages:   1,
		PhaseReferences: 1,
		PhaseBuild:      1,
		PhaseTest:       1,
	}
	if len(plans) != len(want) {
		t.Fatalf("planned %d phases, want %d", len(plans), len(want))
	}
	for _, p := range plans {
		if got := len(p.Actions); got != want[p.Phase] {
			t.Errorf("phase %s planned %d actions, want %d", p.Phase, got, want[p.Phase])
		}
	}
	if len(tc.calls) != 0 {
		t.Errorf("planning executed toolchain calls: %v", tc.calls)
	}
}

func TestPlan_CompliantTree(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	buildCompliantTree(t, tc)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	plans, err := r.Plan()
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	for _, p := range plans {
		switch p.Phase {
		case PhaseStructure, PhasePackages, PhaseReferences:
			if len(p.Actions) != 0 {
				t.Errorf("phase %s planned %v on a compliant tree",
					p.Phase, actionNames(p.Actions))
			}
		}
	}
}

func TestPlanStructure_PartialTree(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	ctx := context.Background()
	bp := testBlueprint()

	// Solution exists with only the domain project scaffolded and listed.
	if _, err := tc.NewSolution(ctx, ".", bp.Solution); err != nil {
		t.Fatalf("NewSolution: %v", err)
	}
	spec, _ := bp.Project("Contoso.Domain")
	if _, err := tc.NewProject(ctx, domain.NewProjectOptions{
		Name: spec.Name, Template: spec.Template, Dir: spec.Directory(),
	}); err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if _, err := tc.AddToSolution(ctx, "Contoso.sln", tree.ProjectFile(spec)); err != nil {
		t.Fatalf("AddToSolution: %v", err)
	}

	r, _ := newTestRunner(t, bp, tc, target)
	actions := planStructure(r, snapshotOf(t, target))
	want := []string{
		"create-project Contoso.Application",
		"add-to-solution Contoso.Application",
	}
	if diff := cmp.Diff(want, actionNames(actions)); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanPackages_SkipsInstalled(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	buildCompliantTree(t, tc)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	if actions := planPackages(r, snapshotOf(t, target)); len(actions) != 0 {
		t.Errorf("planned %v for already installed packages", actionNames(actions))
	}
}

func TestPlanReferences_SkipsWired(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	buildCompliantTree(t, tc)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	if actions := planReferences(r, snapshotOf(t, target)); len(actions) != 0 {
		t.Errorf("planned %v for already wired references", actionNames(actions))
	}
}

func TestPlanValidate_ActionOrder(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	want := []string{
		"check-blueprint",
		"check-toolchain",
		"check-solution-file",
		"check-projects",
		"check-reference-directions",
	}
	actions := planValidate(r, snapshotOf(t, target))
	if diff := cmp.Diff(want, actionNames(actions)); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckSolutionFile_AmbiguousTree(t *testing.T) {
	target := t.TempDir()
	for _, name := range []string{"Legacy.sln", "Scratch.sln"} {
		if err := os.WriteFile(filepath.Join(target, name), []byte("\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	tc := newFakeToolchain(target)
	r, _ := newTestRunner(t, testBlueprint(), tc, target)

	out := r.checkSolutionFile(snapshotOf(t, target)).Execute(context.Background())
	if out.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want %q", out.Status, domain.StatusFailed)
	}
	if out.Actual != "found 2 solution files, none named Contoso.sln" {
		t.Errorf("actual = %q", out.Actual)
	}
}

func TestCheckProjects_CorruptProjectFails(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	buildCompliantTree(t, tc)

	corrupt := filepath.Join(target, "Contoso.Domain", "Contoso.Domain.csproj")
	if err := os.WriteFile(corrupt, []byte("<Project Sdk=\"Microsoft.NET.Sdk\">\n  <PropertyGroup>\n"), 0o644); err != nil {
		t.Fatalf("corrupt csproj: %v", err)
	}

	r, _ := newTestRunner(t, testBlueprint(), tc, target)
	out := r.checkProjects(snapshotOf(t, target)).Execute(context.Background())
	if out.Status != domain.StatusFailed {
		t.Fatalf("status = %q, want %q", out.Status, domain.StatusFailed)
	}
	if out.Detail == "" {
		t.Error("failure detail empty")
	}
}

func TestCheckReferenceDirections_FlagsOutwardReference(t *testing.T) {
	target := t.TempDir()
	tc := newFakeToolchain(target)
	buildCompliantTree(t, tc)

	// Wire a reference pointing outward from the domain layer.
	app, _ := testBlueprint().Project("Contoso.Application")
	dom, _ := testBlueprint().Project("Contoso.Domain")
	if _, err := tc.AddReference(context.Background(),
		tree.ProjectFile(dom), tree.ProjectFile(app)); err != nil {
		t.Fatalf("AddReference: %v", err)
	}

	r, _ := newTestRunner(t, testBlueprint(), tc, target)
	out := r.checkReferenceDirections(snapshotOf(t, target)).Execute(context.Background())
	if out.Status != domain.StatusWarning {
		t.Fatalf("status = %q, want %q", out.Status, domain.StatusWarning)
	}
	if out.Detail != "Contoso.Domain (domain) -> Contoso.Application (application)" {
		t.Errorf("detail = %q", out.Detail)
	}
}

func TestOutcomeFromResult(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.CommandResult
		err    error
		want   domain.Status
	}{
		{
			name:   "clean exit",
			result: &domain.CommandResult{Line: "dotnet build", ExitCode: 0},
			want:   domain.StatusSuccess,
		},
		{
			name:   "non-zero exit",
			result: &domain.CommandResult{Line: "dotnet build", ExitCode: 1, Stderr: "boom"},
			want:   domain.StatusFailed,
		},
		{
			name: "spawn failure",
			err:  domain.ErrToolchainUnavailable,
			want: domain.StatusFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := outcomeFromResult("build", tt.result, tt.err)
			if out.Status != tt.want {
				t.Errorf("status = %q, want %q", out.Status, tt.want)
			}
			if tt.result != nil && out.Command != tt.result.Line {
				t.Errorf("command = %q, want %q", out.Command, tt.result.Line)
			}
		})
	}
}

func TestRootCauseFor(t *testing.T) {
	tests := []struct {
		name string
		out  Outcome
		want string
	}{
		{
			name: "missing package",
			out:  failure("add package exited 1", "error NU1101: Unable to find package Contoso.Fake"),
			want: "package id not found on the configured feeds",
		},
		{
			name: "compiler error",
			out:  failure("build exited 1", "Program.cs(3,1): error CS1002: ; expected"),
			want: "source failed to compile",
		},
		{
			name: "missing template",
			out:  failure("scaffold exited 1", "No templates found matching: 'webapi9'."),
			want: "project template not installed",
		},
		{
			name: "unclassified with detail",
			out:  failure("build exited 1", "something odd happened\nmore context"),
			want: "something odd happened",
		},
		{
			name: "unclassified without detail",
			out:  failure("command succeeded but file not found", ""),
			want: "command did not produce the expected state",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rootCauseFor(tt.out); got != tt.want {
				t.Errorf("rootCauseFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
