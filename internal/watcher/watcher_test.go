package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestWatcher(t *testing.T, root, runbook string) *Watcher {
	t.Helper()
	w, err := New(root, runbook)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	w.SetSettle(50 * time.Millisecond)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func waitForChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case change := <-w.Changes():
		return change
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return Change{}
	}
}

func TestRelevant(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), "/docs/runbook.md")

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join("src", "Contoso.Domain", "Widget.cs"), true},
		{filepath.Join("src", "Contoso.Domain", "Contoso.Domain.csproj"), true},
		{"Contoso.sln", true},
		{"/docs/runbook.md", true},
		{"README.md", false},
		{filepath.Join(".conform", "journal-abc.md"), false},
		{filepath.Join("x", ".conform", "notes.cs"), false},
		{"photo.png", false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.path); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestNote_CoalescesIntoOneChange(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), "")

	w.note("b.cs")
	w.note("a.cs")
	w.note("b.cs")

	change := waitForChange(t, w)
	want := []string{"a.cs", "b.cs"}
	if diff := cmp.Diff(want, change.Paths); diff != "" {
		t.Errorf("change paths mismatch (-want +got):\n%s", diff)
	}
	if change.At.IsZero() {
		t.Error("expected change timestamp to be set")
	}
}

func TestNote_AfterCloseIsDropped(t *testing.T) {
	w := newTestWatcher(t, t.TempDir(), "")

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	w.note("a.cs")

	select {
	case change := <-w.Changes():
		t.Fatalf("expected no change after close, got %+v", change)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStart_ReportsSourceWrite(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	path := filepath.Join(root, "Program.cs")
	if err := os.WriteFile(path, []byte("class Program {}\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	change := waitForChange(t, w)
	if len(change.Paths) == 0 {
		t.Fatal("expected at least one changed path")
	}
	if change.Paths[0] != path {
		t.Errorf("expected %q, got %q", path, change.Paths[0])
	}
}

func TestStart_IgnoresArtifactWrites(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".conform"), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	w := newTestWatcher(t, root, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Journal writes and unrelated files must not produce notifications.
	if err := os.WriteFile(filepath.Join(root, ".conform", "journal-abc.md"), []byte("# Run\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "README.md"), []byte("readme\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	source := filepath.Join(root, "Widget.cs")
	if err := os.WriteFile(source, []byte("class Widget {}\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	change := waitForChange(t, w)
	want := []string{source}
	if diff := cmp.Diff(want, change.Paths); diff != "" {
		t.Errorf("change paths mismatch (-want +got):\n%s", diff)
	}
}

func TestStart_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := newTestWatcher(t, root, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	dir := filepath.Join(root, "src", "Contoso.Domain")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	// Give the watcher a moment to register the new directories.
	time.Sleep(250 * time.Millisecond)

	path := filepath.Join(dir, "Widget.cs")
	if err := os.WriteFile(path, []byte("class Widget {}\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	change := waitForChange(t, w)
	found := false
	for _, p := range change.Paths {
		if p == path {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q in change paths, got %v", path, change.Paths)
	}
}
