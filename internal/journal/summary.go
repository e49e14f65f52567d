package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// WriteSummary writes the error-summary artifact for a run. It is
// written in full at the end of every run, including clean ones, so a
// reader can always distinguish "no errors" from "no summary written".
func WriteSummary(path string, info RunInfo, records []ErrorRecord) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Error Summary\n\n")
	fmt.Fprintf(&sb, "- Run ID: %s\n", info.RunID)
	fmt.Fprintf(&sb, "- Runbook: %s\n", info.Runbook)
	fmt.Fprintf(&sb, "- Started: %s\n", info.Started.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Errors recorded: %d\n", len(records))

	for i, r := range records {
		fmt.Fprintf(&sb, "\n## %d. %s\n\n", i+1, r.Title)
		fmt.Fprintf(&sb, "- Phase: %s\n", r.Phase)
		fmt.Fprintf(&sb, "- Step: %d\n", r.Step)
		fmt.Fprintf(&sb, "- Runbook section: %s\n", r.Section)
		fmt.Fprintf(&sb, "- Severity: %s\n", r.Severity)
		fmt.Fprintf(&sb, "- Expected: %s\n", r.Expected)
		fmt.Fprintf(&sb, "- Actual: %s\n", r.Actual)
		fmt.Fprintf(&sb, "- Root cause: %s\n", r.RootCause)
		fmt.Fprintf(&sb, "- Resolution: %s\n", r.Resolution)
		fmt.Fprintf(&sb, "- Verification: %s\n", r.Verified)
		fmt.Fprintf(&sb, "- Suggestion: %s\n", r.Suggestion)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("journal: create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("journal: write summary %s: %w", path, err)
	}
	return nil
}
