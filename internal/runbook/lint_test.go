package runbook

import (
	"strings"
	"testing"

	"nathanbeddoewebdev/conform/internal/domain"
)

func cleanBlueprint() *Blueprint {
	return &Blueprint{
		Title:    "clean",
		Solution: "Contoso",
		Projects: []domain.ProjectSpec{
			{Name: "Contoso.Domain", Layer: domain.LayerDomain, Template: "classlib"},
			{Name: "Contoso.Application", Layer: domain.LayerApplication, Template: "classlib"},
			{Name: "Contoso.App", Layer: domain.LayerPresentation, Template: "console"},
		},
		Packages: []domain.PackageRef{
			{Project: "Contoso.Application", ID: "MediatR", Version: "12.0.0"},
		},
		References: []domain.ReferenceSpec{
			{From: "Contoso.Application", To: "Contoso.Domain"},
			{From: "Contoso.App", To: "Contoso.Application"},
		},
		Remedies: []domain.RemedySpec{
			{Match: "NU1101", Description: "clear cache", Action: domain.RemedyClearPackageCache},
		},
	}
}

func TestLint_CleanBlueprint(t *testing.T) {
	problems := Lint(cleanBlueprint())
	if len(problems) != 0 {
		t.Errorf("expected no problems, got %+v", problems)
	}
}

func TestLint_Findings(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(*Blueprint)
		wantSeverity string
		wantMsg      string
	}{
		{
			name:         "missing solution",
			mutate:       func(b *Blueprint) { b.Solution = "" },
			wantSeverity: SeverityError,
			wantMsg:      "no solution name",
		},
		{
			name:         "invalid solution name",
			mutate:       func(b *Blueprint) { b.Solution = "1bad" },
			wantSeverity: SeverityError,
			wantMsg:      "must start with a letter",
		},
		{
			name: "no projects",
			mutate: func(b *Blueprint) {
				b.Projects = nil
				b.Packages = nil
				b.References = nil
			},
			wantSeverity: SeverityWarning,
			wantMsg:      "no projects declared",
		},
		{
			name: "duplicate project",
			mutate: func(b *Blueprint) {
				b.Projects = append(b.Projects, b.Projects[0])
			},
			wantSeverity: SeverityError,
			wantMsg:      "declared more than once",
		},
		{
			name: "unknown layer",
			mutate: func(b *Blueprint) {
				b.Projects[0].Layer = "persistence"
			},
			wantSeverity: SeverityError,
			wantMsg:      "unknown layer",
		},
		{
			name: "missing layer warns",
			mutate: func(b *Blueprint) {
				b.Projects[0].Layer = ""
			},
			wantSeverity: SeverityWarning,
			wantMsg:      "has no layer",
		},
		{
			name: "missing template",
			mutate: func(b *Blueprint) {
				b.Projects[0].Template = ""
			},
			wantSeverity: SeverityError,
			wantMsg:      "no template",
		},
		{
			name: "package without id",
			mutate: func(b *Blueprint) {
				b.Packages[0].ID = ""
			},
			wantSeverity: SeverityError,
			wantMsg:      "has no id",
		},
		{
			name: "package for unknown project",
			mutate: func(b *Blueprint) {
				b.Packages[0].Project = "Contoso.Ghost"
			},
			wantSeverity: SeverityError,
			wantMsg:      "undeclared project",
		},
		{
			name: "self reference",
			mutate: func(b *Blueprint) {
				b.References = append(b.References, domain.ReferenceSpec{From: "Contoso.Domain", To: "Contoso.Domain"})
			},
			wantSeverity: SeverityError,
			wantMsg:      "references itself",
		},
		{
			name: "reference to unknown project",
			mutate: func(b *Blueprint) {
				b.References = append(b.References, domain.ReferenceSpec{From: "Contoso.Domain", To: "Contoso.Ghost"})
			},
			wantSeverity: SeverityError,
			wantMsg:      "undeclared project",
		},
		{
			name: "duplicate reference warns",
			mutate: func(b *Blueprint) {
				b.References = append(b.References, b.References[0])
			},
			wantSeverity: SeverityWarning,
			wantMsg:      "more than once",
		},
		{
			name: "layer violation",
			mutate: func(b *Blueprint) {
				b.References = append(b.References, domain.ReferenceSpec{From: "Contoso.Domain", To: "Contoso.Application"})
			},
			wantSeverity: SeverityError,
			wantMsg:      "violates layering",
		},
		{
			name: "remedy without match warns",
			mutate: func(b *Blueprint) {
				b.Remedies[0].Match = ""
			},
			wantSeverity: SeverityWarning,
			wantMsg:      "will never apply",
		},
		{
			name: "remedy with unknown action warns",
			mutate: func(b *Blueprint) {
				b.Remedies[0].Action = "reboot"
			},
			wantSeverity: SeverityWarning,
			wantMsg:      "unknown action",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp := cleanBlueprint()
			tt.mutate(bp)
			problems := Lint(bp)
			for _, p := range problems {
				if p.Severity == tt.wantSeverity && strings.Contains(p.Message, tt.wantMsg) {
					return
				}
			}
			t.Errorf("expected a %s problem containing %q, got %+v", tt.wantSeverity, tt.wantMsg, problems)
		})
	}
}

func TestLint_ReferenceCycle(t *testing.T) {
	bp := cleanBlueprint()
	// Unlayered projects so the cycle is not already a layering error.
	bp.Projects = []domain.ProjectSpec{
		{Name: "LibA", Template: "classlib"},
		{Name: "LibB", Template: "classlib"},
		{Name: "LibC", Template: "classlib"},
	}
	bp.Packages = nil
	bp.References = []domain.ReferenceSpec{
		{From: "LibA", To: "LibB"},
		{From: "LibB", To: "LibC"},
		{From: "LibC", To: "LibA"},
	}

	problems := Lint(bp)
	var found bool
	for _, p := range problems {
		if p.Severity == SeverityError && strings.Contains(p.Message, "reference cycle") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a reference cycle error, got %+v", problems)
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Problem{warnf("just a warning")}) {
		t.Error("warnings alone should not count as errors")
	}
	if !HasErrors([]Problem{warnf("warning"), errorf("error")}) {
		t.Error("expected errors to be detected")
	}
	if HasErrors(nil) {
		t.Error("empty problem list should not have errors")
	}
}
