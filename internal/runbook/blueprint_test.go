package runbook

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/conform/internal/domain"
)

func TestTemplates_DistinctInOrder(t *testing.T) {
	bp := &Blueprint{
		Projects: []domain.ProjectSpec{
			{Name: "Contoso.Domain", Template: "classlib"},
			{Name: "Contoso.Application", Template: "classlib"},
			{Name: "Contoso.Api", Template: "webapi"},
			{Name: "Contoso.Tests", Template: "xunit"},
			{Name: "Contoso.Extra", Template: ""},
		},
	}

	want := []string{"classlib", "webapi", "xunit"}
	if diff := cmp.Diff(want, bp.Templates()); diff != "" {
		t.Errorf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestTemplates_EmptyBlueprint(t *testing.T) {
	bp := &Blueprint{}
	if got := bp.Templates(); got != nil {
		t.Errorf("expected nil for empty blueprint, got %v", got)
	}
}

func TestProject_Lookup(t *testing.T) {
	bp := &Blueprint{
		Projects: []domain.ProjectSpec{
			{Name: "Contoso.Domain", Layer: domain.LayerDomain, Template: "classlib"},
		},
	}

	got, ok := bp.Project("Contoso.Domain")
	if !ok {
		t.Fatal("expected to find Contoso.Domain")
	}
	if got.Template != "classlib" {
		t.Errorf("expected template classlib, got %q", got.Template)
	}

	if _, ok := bp.Project("Contoso.Missing"); ok {
		t.Error("expected lookup miss for unknown project")
	}
}

func TestSectionHeading_FallsBackToName(t *testing.T) {
	bp := &Blueprint{}
	if got := bp.SectionHeading(SectionPackages); got != "packages" {
		t.Errorf("expected fallback heading %q, got %q", "packages", got)
	}

	bp.noteSection(SectionPackages, "3. Install dependencies")
	if got := bp.SectionHeading(SectionPackages); got != "3. Install dependencies" {
		t.Errorf("expected noted heading, got %q", got)
	}
}
