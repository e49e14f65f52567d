package runner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/runbook"
	"nathanbeddoewebdev/conform/internal/tree"
)

// planValidate inspects without mutating. Findings that a later phase
// will repair come back as warnings; only conditions the runner cannot
// safely proceed past are failures.
func planValidate(r *Runner, snap *tree.Snapshot) []Action {
	return []Action{
		r.checkBlueprint(),
		r.checkToolchain(),
		r.checkSolutionFile(snap),
		r.checkProjects(snap),
		r.checkReferenceDirections(snap),
	}
}

func (r *Runner) checkBlueprint() Action {
	return Action{
		Name:     "check-blueprint",
		Intent:   "validate the runbook's declarations before touching the tree",
		Expected: "blueprint lints clean",
		Execute: func(ctx context.Context) Outcome {
			problems := runbook.Lint(r.bp)
			var errs, warns []string
			for _, p := range problems {
				if p.Severity == runbook.SeverityError {
					errs = append(errs, p.Message)
				} else {
					warns = append(warns, p.Message)
				}
			}
			switch {
			case len(errs) > 0:
				return failure(
					fmt.Sprintf("%d blueprint errors", len(errs)),
					strings.Join(append(errs, warns...), "\n"),
				)
			case len(warns) > 0:
				out := warning(
					fmt.Sprintf("%d blueprint warnings", len(warns)),
					"warnings do not block execution",
				)
				out.Detail = strings.Join(warns, "\n")
				return out
			default:
				return success("blueprint lints clean")
			}
		},
	}
}

func (r *Runner) checkToolchain() Action {
	return Action{
		Name:     "check-toolchain",
		Intent:   "confirm the toolchain answers before planning any work",
		Expected: "toolchain responds with its version",
		Execute: func(ctx context.Context) Outcome {
			info, err := r.tc.Probe(ctx)
			if err != nil {
				return failure("toolchain probe failed", err.Error())
			}
			return success(fmt.Sprintf("%s %s available", info.Name, info.Version))
		},
	}
}

func (r *Runner) checkSolutionFile(snap *tree.Snapshot) Action {
	want := r.bp.Solution + ".sln"
	return Action{
		Name:     "check-solution-file",
		Intent:   "locate the solution file the runbook declares",
		Expected: want + " present in the target tree",
		Execute: func(ctx context.Context) Outcome {
			switch {
			case snap.HasSolution():
				return success("found " + snap.SolutionPath)
			case len(snap.Solutions) == 0:
				return warning(
					"no solution file in the target tree",
					want+" will be created in the structure phase",
				)
			default:
				return failure(
					fmt.Sprintf("found %d solution files, none named %s", len(snap.Solutions), want),
					strings.Join(snap.Solutions, "\n"),
				)
			}
		},
	}
}

func (r *Runner) checkProjects(snap *tree.Snapshot) Action {
	return Action{
		Name:     "check-projects",
		Intent:   "compare declared projects against the tree",
		Expected: fmt.Sprintf("all %d declared projects on disk", len(r.bp.Projects)),
		Execute: func(ctx context.Context) Outcome {
			var missing, corrupt []string
			for _, spec := range r.bp.Projects {
				p, ok := snap.Project(spec.Name)
				if !ok {
					missing = append(missing, spec.Name)
					continue
				}
				if p.Invalid != "" {
					corrupt = append(corrupt, fmt.Sprintf("%s: %s", p.Path, p.Invalid))
				}
			}
			switch {
			case len(corrupt) > 0:
				return failure(
					fmt.Sprintf("%d project files unreadable", len(corrupt)),
					strings.Join(corrupt, "\n"),
				)
			case len(missing) > 0:
				return warning(
					fmt.Sprintf("%d of %d declared projects on disk; missing: %s",
						len(r.bp.Projects)-len(missing), len(r.bp.Projects),
						strings.Join(missing, ", ")),
					"missing projects will be created in the structure phase",
				)
			default:
				return success("all declared projects on disk")
			}
		},
	}
}

// checkReferenceDirections reports project references already in the
// tree that point against the declared layering. The runner never
// removes references, so violations are findings, not failures.
func (r *Runner) checkReferenceDirections(snap *tree.Snapshot) Action {
	return Action{
		Name:     "check-reference-directions",
		Intent:   "verify existing project references respect the declared layers",
		Expected: "no references against the layering rules",
		Execute: func(ctx context.Context) Outcome {
			layers := make(map[string]domain.Layer, len(r.bp.Projects))
			for _, spec := range r.bp.Projects {
				layers[spec.Name] = spec.Layer
			}
			var violations []string
			for name, p := range snap.Projects {
				from, ok := layers[name]
				if !ok || !domain.KnownLayer(from) || p.Invalid != "" {
					continue
				}
				for _, ref := range p.References {
					to, ok := layers[ref]
					if !ok || !domain.KnownLayer(to) {
						continue
					}
					if !from.CanReference(to) {
						violations = append(violations,
							fmt.Sprintf("%s (%s) -> %s (%s)", name, from, ref, to))
					}
				}
			}
			if len(violations) == 0 {
				return success("existing references respect the layering")
			}
			sort.Strings(violations)
			out := warning(
				fmt.Sprintf("%d references point against the layering", len(violations)),
				"flagged for manual review; references are never removed",
			)
			out.Detail = strings.Join(violations, "\n")
			return out
		},
	}
}
