package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writer appends entries to a journal file. It owns the step counter:
// steps are assigned at append time and are strictly monotonic for the
// lifetime of the writer. Writer is not safe for concurrent use; the
// runner is single-threaded.
type Writer struct {
	f     *os.File
	path  string
	step  int
	phase string
}

// Create opens a new journal at path and writes the run header. The
// parent directory is created if needed.
func Create(path string, info RunInfo) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("journal: create directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	w := &Writer{f: f, path: path}
	header := fmt.Sprintf(
		"# Transformation Journal\n\n- Run ID: %s\n- Runbook: %s\n- Target: %s\n- Toolchain: %s\n- Started: %s\n",
		info.RunID, info.Runbook, info.Target, info.Toolchain,
		info.Started.UTC().Format(time.RFC3339),
	)
	if err := w.write(header); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one entry and returns it with its assigned step number
// and timestamp filled in.
func (w *Writer) Append(e Entry) (Entry, error) {
	w.step++
	e.Step = w.step
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	var sb strings.Builder
	if e.Phase != w.phase {
		w.phase = e.Phase
		fmt.Fprintf(&sb, "\n## Phase: %s\n", e.Phase)
	}
	fmt.Fprintf(&sb, "\n### Step %d - %s\n\n", e.Step, e.Action)
	fmt.Fprintf(&sb, "- Time: %s\n", e.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&sb, "- Intent: %s\n", e.Intent)
	fmt.Fprintf(&sb, "- Command: %s\n", orNone(e.Command))
	fmt.Fprintf(&sb, "- Expected: %s\n", e.Expected)
	fmt.Fprintf(&sb, "- Actual: %s\n", e.Actual)
	fmt.Fprintf(&sb, "- Status: %s\n", e.Status)
	fmt.Fprintf(&sb, "- Decision: %s\n", e.Decision)
	if len(e.Files) > 0 {
		fmt.Fprintf(&sb, "- Files: %s\n", strings.Join(e.Files, ", "))
	}
	if e.ErrorDetail != "" {
		fmt.Fprintf(&sb, "\n```\n%s\n```\n", strings.TrimSpace(e.ErrorDetail))
	}

	if err := w.write(sb.String()); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Finish writes the run footer. The writer stays open until Close.
func (w *Writer) Finish(status string, finished time.Time) error {
	footer := fmt.Sprintf(
		"\n---\n\n- Finished: %s\n- Result: %s\n- Steps: %d\n",
		finished.UTC().Format(time.RFC3339), status, w.step,
	)
	return w.write(footer)
}

// Steps returns the number of entries appended so far.
func (w *Writer) Steps() int {
	return w.step
}

// Path returns the journal file location.
func (w *Writer) Path() string {
	return w.path
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}

func (w *Writer) write(s string) error {
	if _, err := w.f.WriteString(s); err != nil {
		return fmt.Errorf("journal: write %s: %w", w.path, err)
	}
	return nil
}

func orNone(command string) string {
	if command == "" {
		return "(inspection)"
	}
	return "`" + command + "`"
}
