package journal

import "path/filepath"

// ArtifactDir returns the directory run artifacts are written to for a
// target tree.
func ArtifactDir(target string) string {
	return filepath.Join(target, ".conform")
}

// JournalPath returns the journal file location for a run.
func JournalPath(target, runID string) string {
	return filepath.Join(ArtifactDir(target), "journal-"+shortID(runID)+".md")
}

// SummaryPath returns the error-summary file location for a run.
func SummaryPath(target, runID string) string {
	return filepath.Join(ArtifactDir(target), "errors-"+shortID(runID)+".md")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
