package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event: one CLI invocation
// with its outcome. Runs additionally carry the run id linking the
// entry to the journal artifacts.
type AuditEntry struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Command    string    `json:"command"`
	Args       string    `json:"args,omitempty"`
	Toolchain  string    `json:"toolchain,omitempty"`
	Runbook    string    `json:"runbook,omitempty"`
	Target     string    `json:"target,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
	Outcome    string    `json:"outcome"`
	Detail     string    `json:"detail,omitempty"`
	DurationMs int64     `json:"duration_ms"`
}
