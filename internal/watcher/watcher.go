// Package watcher observes a target tree for changes that affect compliance.
//
// Events are debounced so that a burst of writes (an editor save, a git
// checkout, a dotnet command touching several files) produces a single
// notification once the tree has settled.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultSettle = 400 * time.Millisecond

// skipDirs are directory names never watched. The artifact directory is
// excluded so journal writes do not retrigger the watch loop.
var skipDirs = map[string]struct{}{
	".git":     {},
	".vs":      {},
	".conform": {},
	"bin":      {},
	"obj":      {},
}

// relevantExts are the file extensions that can change compliance.
var relevantExts = map[string]struct{}{
	".sln":    {},
	".csproj": {},
	".cs":     {},
}

// Change is a debounced batch of tree modifications.
type Change struct {
	Paths []string
	At    time.Time
}

// Watcher watches a target tree and reports settled changes.
type Watcher struct {
	fs      *fsnotify.Watcher
	root    string
	runbook string
	settle  time.Duration

	changes chan Change
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	closed  bool
}

// New creates a watcher for the target tree rooted at root. If runbook is
// non-empty the runbook file is watched as well, wherever it lives.
func New(root, runbook string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	w := &Watcher{
		fs:      fw,
		root:    root,
		runbook: runbook,
		settle:  defaultSettle,
		changes: make(chan Change, 1),
		done:    make(chan struct{}),
		pending: make(map[string]struct{}),
	}
	return w, nil
}

// SetSettle overrides the debounce window. Intended for testing.
func (w *Watcher) SetSettle(d time.Duration) { w.settle = d }

// Changes returns the channel settled change batches are delivered on.
func (w *Watcher) Changes() <-chan Change { return w.changes }

// Start registers watches for the tree and begins delivering changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watchTree(w.root); err != nil {
		return err
	}

	if w.runbook != "" {
		// Watching the parent directory catches atomic saves, where the
		// file is replaced by rename rather than written in place.
		if err := w.fs.Add(filepath.Dir(w.runbook)); err != nil {
			return fmt.Errorf("watcher: cannot watch runbook directory: %w", err)
		}
	}

	go w.run(ctx)
	return nil
}

// Close stops the watcher. Pending notifications are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.fs.Close()
}

func (w *Watcher) watchTree(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, skip := skipDirs[d.Name()]; skip && path != root {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
	if err != nil {
		return fmt.Errorf("watcher: cannot watch %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	// New directories need watches of their own before their contents
	// produce events.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if _, skip := skipDirs[filepath.Base(event.Name)]; !skip {
				_ = w.watchTree(event.Name)
			}
			return
		}
	}

	if !w.relevant(event.Name) {
		return
	}
	w.note(event.Name)
}

func (w *Watcher) relevant(path string) bool {
	if w.runbook != "" && path == w.runbook {
		return true
	}
	if strings.Contains(path, string(filepath.Separator)+".conform"+string(filepath.Separator)) {
		return false
	}
	_, ok := relevantExts[filepath.Ext(path)]
	return ok
}

// note records a changed path and arms the settle timer. Each new event
// pushes the flush out until the tree has been quiet for the full window.
func (w *Watcher) note(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.settle, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if w.closed || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)

	// At most one notification is held; the receiver re-reads the tree
	// from disk, so a queued batch already covers any later changes.
	select {
	case w.changes <- Change{Paths: paths, At: time.Now()}:
	default:
	}
}
