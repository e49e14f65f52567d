package journal

import (
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/conform/internal/domain"
)

func TestWriteSummary_ZeroErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".conform", "errors-test.md")
	if err := WriteSummary(path, testInfo(), nil); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	content := readFile(t, path)
	if !strings.Contains(content, "- Errors recorded: 0") {
		t.Errorf("expected zero error count in:\n%s", content)
	}
	if strings.Contains(content, "## 1.") {
		t.Errorf("expected no record sections in:\n%s", content)
	}
}

func TestWriteSummary_Records(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors-test.md")
	records := []ErrorRecord{
		{
			Title:      "package restore failed",
			Phase:      "packages",
			Section:    "Dependencies",
			Severity:   domain.StatusFailed,
			Step:       7,
			Expected:   "Autofac resolved into Contoso.Infrastructure",
			Actual:     "NU1101 unable to find package",
			RootCause:  "private feed not configured",
			Resolution: "clear the local package cache",
			Verified:   "restore succeeded on re-run",
			Suggestion: "document the private feed requirement in the runbook",
		},
		{
			Title:    "build failed",
			Phase:    "build",
			Severity: domain.StatusFailed,
			Step:     12,
			Actual:   "CS0246 type not found",
		},
	}
	if err := WriteSummary(path, testInfo(), records); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}

	content := readFile(t, path)
	for _, want := range []string{
		"- Errors recorded: 2",
		"## 1. package restore failed",
		"- Step: 7",
		"- Runbook section: Dependencies",
		"- Root cause: private feed not configured",
		"- Verification: restore succeeded on re-run",
		"## 2. build failed",
		"- Step: 12",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("summary missing %q in:\n%s", want, content)
		}
	}
}
