package toolchains

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/services/auth"
)

// DotnetName is the registry name of the dotnet toolchain.
const DotnetName = "dotnet"

// Dotnet drives the dotnet CLI against a target tree.
type Dotnet struct {
	exec commandRunner
}

// NewDotnet creates a Dotnet toolchain rooted at target. When the auth
// store holds a feed credential it is exported as NUGET_TOKEN so a
// nuget.config in the target can reference it for authenticated feeds.
func NewDotnet(target string, store auth.Store) (*Dotnet, error) {
	var env []string
	if store != nil {
		token, err := store.GetToken(auth.DefaultFeed)
		switch {
		case err == nil && token != "":
			env = append(env, "NUGET_TOKEN="+token)
		case errors.Is(err, auth.ErrTokenNotFound):
			// Anonymous feeds only.
		case err != nil:
			return nil, fmt.Errorf("dotnet: read feed credential: %w", err)
		}
	}
	return &Dotnet{exec: execRunner{dir: target, env: env}}, nil
}

// RegisterDotnet registers the dotnet factory with the global registry.
func RegisterDotnet() {
	Register(DotnetName, func(target string, store auth.Store) (domain.Toolchain, error) {
		return NewDotnet(target, store)
	})
}

func (d *Dotnet) Name() string {
	return DotnetName
}

// Probe runs dotnet --version and --list-sdks. Failure to spawn the
// binary surfaces as ErrToolchainUnavailable; a missing SDK list or
// template list degrades to partial info rather than failing.
func (d *Dotnet) Probe(ctx context.Context) (*domain.ToolchainInfo, error) {
	version, err := d.exec.run(ctx, "dotnet", "--version")
	if err != nil {
		return nil, err
	}
	if !version.Ok() {
		return nil, fmt.Errorf("dotnet: --version exited %d: %w", version.ExitCode, domain.ErrToolchainUnavailable)
	}

	info := &domain.ToolchainInfo{
		Name:     DotnetName,
		Version:  strings.TrimSpace(version.Stdout),
		ProbedAt: time.Now(),
	}

	if sdks, err := d.exec.run(ctx, "dotnet", "--list-sdks"); err == nil && sdks.Ok() {
		info.SDKs = parseSDKs(sdks.Stdout)
	}
	if templates, err := d.exec.run(ctx, "dotnet", "new", "list"); err == nil && templates.Ok() {
		info.Templates = parseTemplates(templates.Stdout)
	}
	return info, nil
}

func (d *Dotnet) NewSolution(ctx context.Context, dir string, name string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "new", "sln", "--name", name, "--output", dir)
}

func (d *Dotnet) NewProject(ctx context.Context, opts domain.NewProjectOptions) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "new", opts.Template, "--name", opts.Name, "--output", opts.Dir)
}

func (d *Dotnet) AddToSolution(ctx context.Context, solution string, project string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "sln", solution, "add", project)
}

func (d *Dotnet) AddPackage(ctx context.Context, project string, pkg domain.PackageRef) (*domain.CommandResult, error) {
	args := []string{"add", project, "package", pkg.ID}
	if pkg.Version != "" {
		args = append(args, "--version", pkg.Version)
	}
	return d.exec.run(ctx, "dotnet", args...)
}

func (d *Dotnet) AddReference(ctx context.Context, from string, to string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "add", from, "reference", to)
}

func (d *Dotnet) ClearPackageCache(ctx context.Context) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "nuget", "locals", "all", "--clear")
}

func (d *Dotnet) Restore(ctx context.Context, dir string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "restore", dir)
}

func (d *Dotnet) Build(ctx context.Context, dir string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "build", dir, "--nologo")
}

func (d *Dotnet) Test(ctx context.Context, dir string) (*domain.CommandResult, error) {
	return d.exec.run(ctx, "dotnet", "test", dir, "--nologo")
}

// parseSDKs reads `dotnet --list-sdks` lines of the form
// "8.0.101 [/usr/share/dotnet/sdk]".
func parseSDKs(out string) []string {
	var sdks []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if i := strings.Index(line, " ["); i > 0 {
			line = line[:i]
		}
		sdks = append(sdks, line)
	}
	return sdks
}

var columnGap = regexp.MustCompile(`\s{2,}`)

// parseTemplates reads the table printed by `dotnet new list` and
// returns the short-name column. Anything before the dashed separator
// row is header noise.
func parseTemplates(out string) []string {
	var templates []string
	separatorSeen := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "--") {
			separatorSeen = true
			continue
		}
		if !separatorSeen {
			continue
		}
		fields := columnGap.Split(trimmed, -1)
		if len(fields) < 2 {
			continue
		}
		// The short-name column may list aliases like "console,c#".
		for _, name := range strings.Split(fields[1], ",") {
			if name = strings.TrimSpace(name); name != "" {
				templates = append(templates, name)
			}
		}
	}
	return templates
}
