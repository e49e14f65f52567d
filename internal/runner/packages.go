package runner

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/tree"
)

// planPackages installs every declared package the project does not
// already reference. Installs that fail fall back to the cache-clear
// remedy unless the runbook documents something more specific.
func planPackages(r *Runner, snap *tree.Snapshot) []Action {
	var actions []Action
	for _, pkg := range r.bp.Packages {
		if snap.HasPackage(pkg.Project, pkg.ID) {
			continue
		}
		actions = append(actions, r.addPackage(pkg, snap))
	}
	return actions
}

func (r *Runner) addPackage(pkg domain.PackageRef, snap *tree.Snapshot) Action {
	file := r.projectFile(pkg.Project, snap)
	intent := fmt.Sprintf("install %s into %s", pkg.ID, pkg.Project)
	if pkg.Version != "" {
		intent = fmt.Sprintf("install %s %s into %s", pkg.ID, pkg.Version, pkg.Project)
	}
	return Action{
		Name:     "add-package " + pkg.ID,
		Intent:   intent,
		Expected: fmt.Sprintf("%s references %s", pkg.Project, pkg.ID),
		Files:    []string{file},
		Remedy:   r.clearCacheRemedy(),
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.AddPackage(ctx, file, pkg)
			return outcomeFromResult("add package "+pkg.ID, result, err)
		},
	}
}

// projectFile resolves a project name to its csproj path, preferring
// the on-disk location and falling back to where the structure phase
// scaffolds it.
func (r *Runner) projectFile(name string, snap *tree.Snapshot) string {
	if p, ok := snap.Project(name); ok {
		return p.Path
	}
	if spec, ok := r.bp.Project(name); ok {
		return tree.ProjectFile(spec)
	}
	return name
}
