package runbook

import (
	"fmt"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/util"
)

// Problem severities reported by Lint. Errors make a blueprint
// unrunnable; warnings do not.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Problem is one finding from a static blueprint check.
type Problem struct {
	Severity string
	Message  string
}

func errorf(format string, args ...any) Problem {
	return Problem{Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(format string, args ...any) Problem {
	return Problem{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// HasErrors reports whether any problem is an error.
func HasErrors(problems []Problem) bool {
	for _, p := range problems {
		if p.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Lint checks a blueprint statically: names, layer assignments,
// reference direction, and internal consistency. It never touches the
// target tree.
func Lint(bp *Blueprint) []Problem {
	var problems []Problem

	if bp.Solution == "" {
		problems = append(problems, errorf("no solution name declared (frontmatter or a yaml block must set one)"))
	} else if err := util.ValidateProjectName(bp.Solution); err != nil {
		problems = append(problems, errorf("solution: %v", err))
	}

	if len(bp.Projects) == 0 {
		problems = append(problems, warnf("no projects declared; only build and test phases will have work"))
	}

	layers := map[string]domain.Layer{}
	seen := map[string]bool{}
	for _, p := range bp.Projects {
		if err := util.ValidateProjectName(p.Name); err != nil {
			problems = append(problems, errorf("project: %v", err))
			continue
		}
		if seen[p.Name] {
			problems = append(problems, errorf("project %q declared more than once", p.Name))
			continue
		}
		seen[p.Name] = true
		layers[p.Name] = p.Layer
		switch {
		case p.Layer == "":
			problems = append(problems, warnf("project %q has no layer; reference direction is unchecked for it", p.Name))
		case !domain.KnownLayer(p.Layer):
			problems = append(problems, errorf("project %q has unknown layer %q", p.Name, p.Layer))
		}
		if p.Template == "" {
			problems = append(problems, errorf("project %q has no template", p.Name))
		}
	}

	for _, pkg := range bp.Packages {
		if pkg.ID == "" {
			problems = append(problems, errorf("package entry for project %q has no id", pkg.Project))
			continue
		}
		if !seen[pkg.Project] {
			problems = append(problems, errorf("package %q targets undeclared project %q", pkg.ID, pkg.Project))
		}
	}

	refSeen := map[string]bool{}
	for _, ref := range bp.References {
		if ref.From == ref.To {
			problems = append(problems, errorf("project %q references itself", ref.From))
			continue
		}
		if !seen[ref.From] || !seen[ref.To] {
			problems = append(problems, errorf("reference %s -> %s names an undeclared project", ref.From, ref.To))
			continue
		}
		key := ref.From + "->" + ref.To
		if refSeen[key] {
			problems = append(problems, warnf("reference %s -> %s declared more than once", ref.From, ref.To))
		}
		refSeen[key] = true

		from, to := layers[ref.From], layers[ref.To]
		if from != "" && to != "" && domain.KnownLayer(from) && domain.KnownLayer(to) && !from.CanReference(to) {
			problems = append(problems, errorf("reference %s -> %s violates layering (%s may not reference %s)", ref.From, ref.To, from, to))
		}
	}

	if cycle := findCycle(bp.References); len(cycle) > 0 {
		problems = append(problems, errorf("reference cycle: %s", joinCycle(cycle)))
	}

	for _, r := range bp.Remedies {
		if r.Match == "" {
			problems = append(problems, warnf("remedy %q has no match text and will never apply", r.Description))
		}
		if r.Action != "" && !domain.KnownRemedyAction(r.Action) {
			problems = append(problems, warnf("remedy %q names unknown action %q", r.Description, r.Action))
		}
	}

	return problems
}

// findCycle returns one reference cycle if any exists, as the list of
// project names along it.
func findCycle(refs []domain.ReferenceSpec) []string {
	adj := map[string][]string{}
	for _, r := range refs {
		adj[r.From] = append(adj[r.From], r.To)
	}

	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var stack []string
	var cycle []string

	var visit func(n string) bool
	visit = func(n string) bool {
		state[n] = visiting
		stack = append(stack, n)
		for _, m := range adj[n] {
			switch state[m] {
			case visiting:
				for i, s := range stack {
					if s == m {
						cycle = append([]string{}, stack[i:]...)
						return true
					}
				}
			case unvisited:
				if visit(m) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[n] = done
		return false
	}

	for n := range adj {
		if state[n] == unvisited && visit(n) {
			return cycle
		}
	}
	return nil
}

func joinCycle(cycle []string) string {
	out := ""
	for _, n := range cycle {
		out += n + " -> "
	}
	return out + cycle[0]
}
