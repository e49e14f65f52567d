package domain

// Status classifies the outcome of a single runner action.
type Status string

const (
	// StatusSuccess means the actual outcome matched the expectation
	// and the runner proceeds.
	StatusSuccess Status = "Success"

	// StatusWarning means the outcome deviated in a tolerable way and
	// the runner proceeds with the workaround noted in the decision.
	StatusWarning Status = "Warning"

	// StatusFailed means the outcome did not match. The runner halts
	// the phase, records the error, and attempts one remediation.
	StatusFailed Status = "Failed"
)

// Terminal reports whether the status halts the current phase.
func (s Status) Terminal() bool {
	return s == StatusFailed
}
