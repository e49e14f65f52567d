package runbook

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Summary identifies a discovered runbook.
type Summary struct {
	Path     string
	Title    string
	Solution string
}

// skipDirs are directory names that never hold runbooks.
var skipDirs = map[string]bool{
	".git":         true,
	".conform":     true,
	"bin":          true,
	"obj":          true,
	"node_modules": true,
	"vendor":       true,
}

// Discover walks root looking for markdown files that parse as
// runbooks with a solution declared. Files that fail to parse are
// skipped rather than reported; a tree full of ordinary markdown is
// not an error.
func Discover(root string) ([]Summary, error) {
	var found []Summary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		bp, err := Load(path)
		if err != nil || bp.Solution == "" {
			return nil
		}
		found = append(found, Summary{Path: path, Title: bp.Title, Solution: bp.Solution})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("runbook: discover under %s: %w", root, err)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}
