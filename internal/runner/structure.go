package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/tree"
)

// planStructure creates whatever the snapshot shows missing: the
// solution file, declared projects, and solution membership. Later
// actions in the phase assume earlier ones ran, so membership is
// planned from the same stale snapshot and still lands correctly.
func planStructure(r *Runner, snap *tree.Snapshot) []Action {
	var actions []Action
	if !snap.HasSolution() {
		actions = append(actions, r.createSolution())
	}
	for _, spec := range r.bp.Projects {
		if _, ok := snap.Project(spec.Name); !ok {
			actions = append(actions, r.createProject(spec))
		}
	}
	for _, spec := range r.bp.Projects {
		if !snap.InSolution[spec.Name] {
			actions = append(actions, r.addToSolution(spec, snap))
		}
	}
	return actions
}

func (r *Runner) createSolution() Action {
	file := r.bp.Solution + ".sln"
	return Action{
		Name:     "create-solution",
		Intent:   "create the " + r.bp.Solution + " solution file",
		Expected: file + " exists at the target root",
		Files:    []string{file},
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.NewSolution(ctx, ".", r.bp.Solution)
			out := outcomeFromResult("create solution", result, err)
			if out.Status == domain.StatusFailed {
				return out
			}
			if _, err := os.Stat(filepath.Join(r.target, file)); err != nil {
				f := failure("command succeeded but "+file+" not found", err.Error())
				f.Command = out.Command
				return f
			}
			out.Actual = file + " created"
			return out
		},
	}
}

func (r *Runner) createProject(spec domain.ProjectSpec) Action {
	file := tree.ProjectFile(spec)
	return Action{
		Name:     "create-project " + spec.Name,
		Intent:   fmt.Sprintf("scaffold %s from the %s template", spec.Name, spec.Template),
		Expected: file + " exists",
		Files:    []string{file},
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.NewProject(ctx, domain.NewProjectOptions{
				Name:     spec.Name,
				Template: spec.Template,
				Dir:      spec.Directory(),
			})
			out := outcomeFromResult("scaffold "+spec.Name, result, err)
			if out.Status == domain.StatusFailed {
				return out
			}
			if _, err := os.Stat(filepath.Join(r.target, filepath.FromSlash(file))); err != nil {
				f := failure("command succeeded but "+file+" not found", err.Error())
				f.Command = out.Command
				return f
			}
			out.Actual = file + " created"
			return out
		},
	}
}

func (r *Runner) addToSolution(spec domain.ProjectSpec, snap *tree.Snapshot) Action {
	solution := snap.SolutionPath
	if solution == "" {
		solution = r.bp.Solution + ".sln"
	}
	return Action{
		Name:     "add-to-solution " + spec.Name,
		Intent:   fmt.Sprintf("register %s in %s", spec.Name, solution),
		Expected: spec.Name + " listed in " + solution,
		Files:    []string{solution},
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.AddToSolution(ctx, solution, tree.ProjectFile(spec))
			return outcomeFromResult("add "+spec.Name+" to solution", result, err)
		},
	}
}
