// Package journal writes the run's observable record: an append-only
// markdown log with one entry per attempted action, and a separate
// error-summary artifact. Entries are never rewritten or reordered;
// the file on disk grows strictly in execution order. A failure to
// write here is fatal to the whole run.
package journal

import (
	"time"

	"nathanbeddoewebdev/conform/internal/domain"
)

// Entry is the journaled record of one attempted action.
type Entry struct {
	Timestamp   time.Time     `json:"timestamp"`
	Step        int           `json:"step"`
	Phase       string        `json:"phase"`
	Action      string        `json:"action"`
	Intent      string        `json:"intent"`
	Command     string        `json:"command"`
	Expected    string        `json:"expected"`
	Actual      string        `json:"actual"`
	Status      domain.Status `json:"status"`
	Decision    string        `json:"decision"`
	Files       []string      `json:"files,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
}

// ErrorRecord documents one failed action for the error summary. Step
// points at the Failed journal entry the record describes.
type ErrorRecord struct {
	Title      string        `json:"title"`
	Phase      string        `json:"phase"`
	Section    string        `json:"section"`
	Severity   domain.Status `json:"severity"`
	Step       int           `json:"step"`
	Expected   string        `json:"expected"`
	Actual     string        `json:"actual"`
	RootCause  string        `json:"root_cause"`
	Resolution string        `json:"resolution"`
	Verified   string        `json:"verified"`
	Suggestion string        `json:"suggestion"`
}

// RunInfo is the header metadata for a run's artifacts.
type RunInfo struct {
	RunID     string
	Runbook   string
	Target    string
	Toolchain string
	Started   time.Time
}
