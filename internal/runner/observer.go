package runner

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/conform/internal/journal"
)

// Observer receives progress events while a run executes. The runner
// calls it synchronously between journal appends; implementations must
// be cheap and must not block.
type Observer interface {
	PhaseStarted(name string, planned int)
	EntryAppended(e journal.Entry)
	RunFinished(res Result)
}

type nopObserver struct{}

func (nopObserver) PhaseStarted(string, int)    {}
func (nopObserver) EntryAppended(journal.Entry) {}
func (nopObserver) RunFinished(Result)          {}

// WriterObserver prints one line per event to w. It is the plain-mode
// progress surface for terminals without the interactive view.
type WriterObserver struct {
	W io.Writer
}

func (o WriterObserver) PhaseStarted(name string, planned int) {
	if planned == 0 {
		fmt.Fprintf(o.W, "== %s: nothing to do\n", name)
		return
	}
	fmt.Fprintf(o.W, "== %s (%d actions)\n", name, planned)
}

func (o WriterObserver) EntryAppended(e journal.Entry) {
	fmt.Fprintf(o.W, "  [%d] %-10s %s\n", e.Step, e.Status, e.Action)
}

func (o WriterObserver) RunFinished(res Result) {
	fmt.Fprintf(o.W, "Run %s: %d steps, %d warnings, %d failures\n",
		res.Status, res.Steps, res.Warnings, res.Failures)
}
