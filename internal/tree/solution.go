// Package tree inspects a target file tree and reports its actual
// state: which solution file exists, which projects are on disk, which
// packages and references each project already carries. It reads files
// directly rather than going through a toolchain, so inspection works
// on machines without the tool installed and costs no process spawns.
package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// projectLine matches project declarations in the sln text format:
//
//	Project("{type-guid}") = "Name", "rel\path.csproj", "{project-guid}"
var projectLine = regexp.MustCompile(`^Project\("\{[^}]+\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{[^}]+\}"`)

// Solution is the parsed content of a solution file.
type Solution struct {
	Name     string
	Path     string // relative to the target root
	Projects []SolutionProject
}

// SolutionProject is one project entry in a solution file.
type SolutionProject struct {
	Name string
	Path string // relative to the solution file, slash-normalized
}

// ParseSolution reads the solution file at root/rel.
func ParseSolution(root, rel string) (*Solution, error) {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		return nil, fmt.Errorf("tree: read solution %s: %w", rel, err)
	}

	sol := &Solution{
		Name: strings.TrimSuffix(filepath.Base(rel), ".sln"),
		Path: rel,
	}
	for _, line := range strings.Split(string(data), "\n") {
		m := projectLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		// Solution folders use the project syntax with a folder path
		// equal to the name; only csproj entries are real projects.
		path := strings.ReplaceAll(m[2], `\`, "/")
		if !strings.HasSuffix(path, ".csproj") {
			continue
		}
		sol.Projects = append(sol.Projects, SolutionProject{Name: m[1], Path: path})
	}
	return sol, nil
}

// FindSolutions returns the relative paths of all solution files at
// the top level of root, sorted.
func FindSolutions(root string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.sln"))
	if err != nil {
		return nil, fmt.Errorf("tree: glob solutions: %w", err)
	}
	rels := make([]string, 0, len(matches))
	for _, m := range matches {
		rels = append(rels, filepath.Base(m))
	}
	return rels, nil
}
