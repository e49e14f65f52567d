package history

import "time"

// Run status values persisted to the runs table.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// RunRecord represents one persisted run. A record is inserted with
// status "running" when the run starts and updated once when it ends,
// so an interrupted process leaves a visible "running" row behind.
type RunRecord struct {
	// ID is the auto-increment primary key (assigned on insert).
	ID int64

	// RunID is the stable identifier shared with the run's journal and
	// error summary artifacts.
	RunID string

	// Runbook is the path of the runbook that drove the run.
	Runbook string

	// Target is the tree the run executed against.
	Target string

	// Toolchain is the registry name of the toolchain used.
	Toolchain string

	// Solution is the solution name the runbook declared.
	Solution string

	// Status is "running", "succeeded", or "failed".
	Status string

	// Steps, Warnings, and Failures are the run's final counts.
	Steps    int
	Warnings int
	Failures int

	// JournalPath and SummaryPath locate the run's artifacts.
	JournalPath string
	SummaryPath string

	// DurationMs is the wall-clock run time in milliseconds.
	DurationMs int64

	// StartedAt is when the run began.
	StartedAt time.Time

	// UpdatedAt is the last time the record was modified.
	UpdatedAt time.Time
}

// Finished reports whether the run reached a terminal status.
func (r *RunRecord) Finished() bool {
	return r.Status == StatusSucceeded || r.Status == StatusFailed
}

// Stats aggregates the runs table for reporting.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Running   int

	// Steps and Failures are summed over finished runs.
	Steps    int
	Failures int
}
