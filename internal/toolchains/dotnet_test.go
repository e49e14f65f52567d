package toolchains

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/services/auth"
)

func pinnedTime() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

// fakeRunner records command lines and plays back canned results.
type fakeRunner struct {
	calls   []string
	results map[string]*domain.CommandResult
	err     error
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) (*domain.CommandResult, error) {
	line := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, line)
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[line]; ok {
		return r, nil
	}
	return &domain.CommandResult{Line: line}, nil
}

func TestDotnet_CommandLines(t *testing.T) {
	tests := []struct {
		name string
		call func(ctx context.Context, d *Dotnet) error
		want string
	}{
		{
			name: "new solution",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.NewSolution(ctx, ".", "Contoso")
				return err
			},
			want: "dotnet new sln --name Contoso --output .",
		},
		{
			name: "new project",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.NewProject(ctx, domain.NewProjectOptions{Name: "Contoso.Domain", Template: "classlib", Dir: "Contoso.Domain"})
				return err
			},
			want: "dotnet new classlib --name Contoso.Domain --output Contoso.Domain",
		},
		{
			name: "add to solution",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.AddToSolution(ctx, "Contoso.sln", "Contoso.Domain/Contoso.Domain.csproj")
				return err
			},
			want: "dotnet sln Contoso.sln add Contoso.Domain/Contoso.Domain.csproj",
		},
		{
			name: "add package with version",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.AddPackage(ctx, "p.csproj", domain.PackageRef{ID: "Autofac", Version: "8.1.0"})
				return err
			},
			want: "dotnet add p.csproj package Autofac --version 8.1.0",
		},
		{
			name: "add package without version",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.AddPackage(ctx, "p.csproj", domain.PackageRef{ID: "Autofac"})
				return err
			},
			want: "dotnet add p.csproj package Autofac",
		},
		{
			name: "add reference",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.AddReference(ctx, "a.csproj", "b.csproj")
				return err
			},
			want: "dotnet add a.csproj reference b.csproj",
		},
		{
			name: "clear package cache",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.ClearPackageCache(ctx)
				return err
			},
			want: "dotnet nuget locals all --clear",
		},
		{
			name: "restore",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.Restore(ctx, ".")
				return err
			},
			want: "dotnet restore .",
		},
		{
			name: "build",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.Build(ctx, ".")
				return err
			},
			want: "dotnet build . --nologo",
		},
		{
			name: "test",
			call: func(ctx context.Context, d *Dotnet) error {
				_, err := d.Test(ctx, ".")
				return err
			},
			want: "dotnet test . --nologo",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRunner{}
			d := &Dotnet{exec: fake}
			if err := tt.call(context.Background(), d); err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if len(fake.calls) != 1 || fake.calls[0] != tt.want {
				t.Errorf("recorded calls %v, want [%s]", fake.calls, tt.want)
			}
		})
	}
}

func TestDotnet_Probe(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]*domain.CommandResult{
			"dotnet --version": {Stdout: "8.0.101\n"},
			"dotnet --list-sdks": {
				Stdout: "6.0.420 [/usr/share/dotnet/sdk]\n8.0.101 [/usr/share/dotnet/sdk]\n",
			},
			"dotnet new list": {
				Stdout: "These templates matched your input:\n\n" +
					"Template Name        Short Name     Language    Tags\n" +
					"-------------------  -------------  ----------  --------------\n" +
					"Class Library        classlib       [C#],F#,VB  Common/Library\n" +
					"Console App          console,c#     [C#],F#,VB  Common/Console\n",
			},
		},
	}
	d := &Dotnet{exec: fake}

	info, err := d.Probe(context.Background())
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	info.ProbedAt = pinnedTime()

	want := &domain.ToolchainInfo{
		Name:      "dotnet",
		Version:   "8.0.101",
		SDKs:      []string{"6.0.420", "8.0.101"},
		Templates: []string{"classlib", "console", "c#"},
		ProbedAt:  pinnedTime(),
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("probe mismatch (-want +got):\n%s", diff)
	}
}

func TestDotnet_ProbeUnavailable(t *testing.T) {
	fake := &fakeRunner{err: domain.ErrToolchainUnavailable}
	d := &Dotnet{exec: fake}

	_, err := d.Probe(context.Background())
	if !errors.Is(err, domain.ErrToolchainUnavailable) {
		t.Errorf("expected ErrToolchainUnavailable, got %v", err)
	}
}

func TestDotnet_ProbeNonZeroVersion(t *testing.T) {
	fake := &fakeRunner{
		results: map[string]*domain.CommandResult{
			"dotnet --version": {ExitCode: 145, Stderr: "A compatible .NET SDK was not found."},
		},
	}
	d := &Dotnet{exec: fake}

	_, err := d.Probe(context.Background())
	if !errors.Is(err, domain.ErrToolchainUnavailable) {
		t.Errorf("expected ErrToolchainUnavailable, got %v", err)
	}
}

func TestNewDotnet_FeedToken(t *testing.T) {
	store := auth.NewMockStore()
	if err := store.SetToken(auth.DefaultFeed, "secret123"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	d, err := NewDotnet(t.TempDir(), store)
	if err != nil {
		t.Fatalf("NewDotnet failed: %v", err)
	}
	runner, ok := d.exec.(execRunner)
	if !ok {
		t.Fatalf("expected execRunner, got %T", d.exec)
	}
	found := false
	for _, e := range runner.env {
		if e == "NUGET_TOKEN=secret123" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected NUGET_TOKEN in env, got %v", runner.env)
	}
}

func TestNewDotnet_NoToken(t *testing.T) {
	d, err := NewDotnet(t.TempDir(), auth.NewMockStore())
	if err != nil {
		t.Fatalf("NewDotnet failed: %v", err)
	}
	runner := d.exec.(execRunner)
	if len(runner.env) != 0 {
		t.Errorf("expected empty env without a stored token, got %v", runner.env)
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := execRunner{dir: t.TempDir()}
	_, err := r.run(context.Background(), "definitely-not-a-real-binary-5f2a")
	if !errors.Is(err, domain.ErrToolchainUnavailable) {
		t.Errorf("expected ErrToolchainUnavailable, got %v", err)
	}
}
