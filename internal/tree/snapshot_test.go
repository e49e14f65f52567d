package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/conform/internal/domain"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

const contosoSln = `Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
VisualStudioVersion = 17.0.31903.59
MinimumVisualStudioVersion = 10.0.40219.1
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Contoso.Domain", "Contoso.Domain\Contoso.Domain.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Contoso.Application", "Contoso.Application\Contoso.Application.csproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "docs", "docs", "{22222222-2222-2222-2222-222222222222}"
EndProject
Global
EndGlobal
`

const domainCsproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
</Project>
`

const applicationCsproj = `<Project Sdk="Microsoft.NET.Sdk">
  <PropertyGroup>
    <TargetFramework>net8.0</TargetFramework>
  </PropertyGroup>
  <ItemGroup>
    <PackageReference Include="MediatR" Version="12.0.0" />
    <PackageReference Include="FluentValidation" />
  </ItemGroup>
  <ItemGroup>
    <ProjectReference Include="..\Contoso.Domain\Contoso.Domain.csproj" />
  </ItemGroup>
</Project>
`

func TestParseSolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Contoso.sln", contosoSln)

	sol, err := ParseSolution(root, "Contoso.sln")
	if err != nil {
		t.Fatalf("ParseSolution failed: %v", err)
	}

	want := &Solution{
		Name: "Contoso",
		Path: "Contoso.sln",
		Projects: []SolutionProject{
			{Name: "Contoso.Domain", Path: "Contoso.Domain/Contoso.Domain.csproj"},
			{Name: "Contoso.Application", Path: "Contoso.Application/Contoso.Application.csproj"},
		},
	}
	if diff := cmp.Diff(want, sol); diff != "" {
		t.Errorf("solution mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Contoso.Application/Contoso.Application.csproj", applicationCsproj)

	proj, err := ParseProject(root, "Contoso.Application/Contoso.Application.csproj")
	if err != nil {
		t.Fatalf("ParseProject failed: %v", err)
	}

	want := &Project{
		Name:            "Contoso.Application",
		Path:            "Contoso.Application/Contoso.Application.csproj",
		Sdk:             "Microsoft.NET.Sdk",
		TargetFramework: "net8.0",
		Packages: []domain.PackageRef{
			{Project: "Contoso.Application", ID: "MediatR", Version: "12.0.0"},
			{Project: "Contoso.Application", ID: "FluentValidation"},
		},
		References: []string{"Contoso.Domain"},
	}
	if diff := cmp.Diff(want, proj); diff != "" {
		t.Errorf("project mismatch (-want +got):\n%s", diff)
	}
}

func TestParseProject_Corrupt(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Bad/Bad.csproj", "<Project><unclosed")

	proj, err := ParseProject(root, "Bad/Bad.csproj")
	if err != nil {
		t.Fatalf("expected corrupt csproj to parse as a finding, got error: %v", err)
	}
	if proj.Invalid == "" {
		t.Error("expected Invalid to carry the parse error")
	}
	if proj.Name != "Bad" {
		t.Errorf("expected name from file name, got %q", proj.Name)
	}
}

func TestTake(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Contoso.sln", contosoSln)
	writeFile(t, root, "Contoso.Domain/Contoso.Domain.csproj", domainCsproj)
	writeFile(t, root, "Contoso.Application/Contoso.Application.csproj", applicationCsproj)
	// Build output must not be scanned.
	writeFile(t, root, "Contoso.Domain/obj/Decoy/Decoy.csproj", domainCsproj)

	snap, err := Take(root, "Contoso")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}

	if !snap.HasSolution() || snap.SolutionName != "Contoso" {
		t.Errorf("expected active solution Contoso, got %+v", snap)
	}
	if !snap.InSolution["Contoso.Domain"] || !snap.InSolution["Contoso.Application"] {
		t.Errorf("expected both projects in solution, got %v", snap.InSolution)
	}
	wantNames := []string{"Contoso.Application", "Contoso.Domain"}
	if diff := cmp.Diff(wantNames, snap.ProjectNames()); diff != "" {
		t.Errorf("project names mismatch (-want +got):\n%s", diff)
	}

	if !snap.HasPackage("Contoso.Application", "MediatR") {
		t.Error("expected MediatR to be present on Contoso.Application")
	}
	if snap.HasPackage("Contoso.Domain", "MediatR") {
		t.Error("did not expect MediatR on Contoso.Domain")
	}
	if !snap.HasReference("Contoso.Application", "Contoso.Domain") {
		t.Error("expected Contoso.Application to reference Contoso.Domain")
	}
	if snap.HasReference("Contoso.Domain", "Contoso.Application") {
		t.Error("did not expect reverse reference")
	}
}

func TestTake_NoSolution(t *testing.T) {
	snap, err := Take(t.TempDir(), "Contoso")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if snap.HasSolution() {
		t.Errorf("expected no solution, got %q", snap.SolutionPath)
	}
	if len(snap.Projects) != 0 {
		t.Errorf("expected no projects, got %v", snap.ProjectNames())
	}
}

func TestTake_PicksNamedSolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Contoso.sln", contosoSln)
	writeFile(t, root, "Legacy.sln", "Microsoft Visual Studio Solution File, Format Version 12.00\n")

	snap, err := Take(root, "Contoso")
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if snap.SolutionPath != "Contoso.sln" {
		t.Errorf("expected Contoso.sln to be active, got %q", snap.SolutionPath)
	}
	if len(snap.Solutions) != 2 {
		t.Errorf("expected both solutions to be recorded, got %v", snap.Solutions)
	}
}

func TestProjectFile(t *testing.T) {
	tests := []struct {
		spec domain.ProjectSpec
		want string
	}{
		{domain.ProjectSpec{Name: "Contoso.Domain"}, "Contoso.Domain/Contoso.Domain.csproj"},
		{domain.ProjectSpec{Name: "Contoso.App", Dir: "apps/Contoso.App"}, "apps/Contoso.App/Contoso.App.csproj"},
	}
	for _, tt := range tests {
		if got := ProjectFile(tt.spec); got != tt.want {
			t.Errorf("ProjectFile(%q) = %q, want %q", tt.spec.Name, got, tt.want)
		}
	}
}
