package tree

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
)

// skipDirs are directory names excluded from the csproj scan.
var skipDirs = map[string]bool{
	".git":         true,
	".conform":     true,
	"bin":          true,
	"obj":          true,
	"node_modules": true,
	"packages":     true,
}

// Snapshot is the observed state of a target tree at one point in
// time. The runner refreshes it between phases so later phases see
// earlier phases' effects.
type Snapshot struct {
	Root string

	// Solutions lists all solution files at the top level of the
	// target. A compliant tree has exactly one.
	Solutions []string

	// SolutionPath and SolutionName describe the active solution: the
	// one matching the blueprint's name when present, else the only
	// one found. Empty when no solution file exists.
	SolutionPath string
	SolutionName string

	// InSolution holds the project names listed by the active solution.
	InSolution map[string]bool

	// Projects holds every csproj found on disk, keyed by project name.
	Projects map[string]*Project
}

// Take inspects the tree under root. solutionName is the blueprint's
// declared solution, used to pick the active solution when several
// exist; pass "" to accept any single solution file.
func Take(root, solutionName string) (*Snapshot, error) {
	snap := &Snapshot{
		Root:       root,
		InSolution: map[string]bool{},
		Projects:   map[string]*Project{},
	}

	solutions, err := FindSolutions(root)
	if err != nil {
		return nil, err
	}
	snap.Solutions = solutions
	snap.SolutionPath = pickSolution(solutions, solutionName)
	if snap.SolutionPath != "" {
		sol, err := ParseSolution(root, snap.SolutionPath)
		if err != nil {
			return nil, err
		}
		snap.SolutionName = sol.Name
		for _, p := range sol.Projects {
			snap.InSolution[p.Name] = true
		}
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".csproj") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		proj, err := ParseProject(root, rel)
		if err != nil {
			return err
		}
		snap.Projects[proj.Name] = proj
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tree: scan %s: %w", root, err)
	}
	return snap, nil
}

func pickSolution(solutions []string, name string) string {
	if name != "" {
		want := name + ".sln"
		for _, s := range solutions {
			if s == want {
				return s
			}
		}
	}
	if len(solutions) == 1 {
		return solutions[0]
	}
	return ""
}

// HasSolution reports whether an active solution file was found.
func (s *Snapshot) HasSolution() bool {
	return s.SolutionPath != ""
}

// Project returns the on-disk project with the given name.
func (s *Snapshot) Project(name string) (*Project, bool) {
	p, ok := s.Projects[name]
	return p, ok
}

// HasPackage reports whether the named project exists and already
// references the package.
func (s *Snapshot) HasPackage(project, id string) bool {
	p, ok := s.Projects[project]
	return ok && p.HasPackage(id)
}

// HasReference reports whether from exists and already references to.
func (s *Snapshot) HasReference(from, to string) bool {
	p, ok := s.Projects[from]
	return ok && p.HasReference(to)
}

// ProjectNames returns the on-disk project names, sorted.
func (s *Snapshot) ProjectNames() []string {
	names := make([]string, 0, len(s.Projects))
	for n := range s.Projects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ProjectFile returns the csproj path a scaffolded project is expected
// to land at, relative to the target root.
func ProjectFile(p domain.ProjectSpec) string {
	return filepath.ToSlash(filepath.Join(p.Directory(), p.Name+".csproj"))
}
