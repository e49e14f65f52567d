package runner

import (
	"context"
	"fmt"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/util"
)

// Action is one discrete step of a phase. The runner drives every
// action through the same sequence: state the intent, execute, compare
// the outcome against the expectation, classify, journal.
type Action struct {
	Name     string
	Intent   string
	Expected string
	Files    []string

	// Execute performs the action and reports what actually happened.
	// Inspection-only actions leave Outcome.Command empty.
	Execute func(ctx context.Context) Outcome

	// Remedy is the built-in resolution attempted when the action
	// fails and the runbook documents nothing that matches.
	Remedy *Remedy
}

// Outcome is what actually happened when an action executed.
type Outcome struct {
	Status  domain.Status
	Actual  string
	Command string
	// Detail carries the full failure text for the journal.
	Detail string
	// Workaround notes why a Warning outcome is safe to proceed past.
	Workaround string
	// Files touched during execution, merged with the action's own.
	Files []string
}

// success builds a passing outcome.
func success(actual string) Outcome {
	return Outcome{Status: domain.StatusSuccess, Actual: actual}
}

// warning builds a tolerable-deviation outcome.
func warning(actual, workaround string) Outcome {
	return Outcome{Status: domain.StatusWarning, Actual: actual, Workaround: workaround}
}

// failure builds a failed outcome.
func failure(actual, detail string) Outcome {
	return Outcome{Status: domain.StatusFailed, Actual: actual, Detail: detail}
}

// outcomeFromResult classifies a toolchain command result. A non-nil
// error means the command never ran; a non-zero exit is a failure with
// the command's combined output as detail.
func outcomeFromResult(what string, result *domain.CommandResult, err error) Outcome {
	if err != nil {
		return Outcome{
			Status: domain.StatusFailed,
			Actual: what + " could not run",
			Detail: err.Error(),
		}
	}
	if result.Ok() {
		out := success(what + " succeeded")
		out.Command = result.Line
		return out
	}
	out := failure(
		fmt.Sprintf("%s exited %d", what, result.ExitCode),
		result.Combined(),
	)
	out.Command = result.Line
	return out
}

// rootCauses maps well-known failure markers to a concise root cause.
var rootCauses = []struct {
	marker string
	cause  string
}{
	{"NU1101", "package id not found on the configured feeds"},
	{"NU1102", "requested package version not available"},
	{"NU1301", "package feed rejected the request"},
	{"error CS", "source failed to compile"},
	{"No templates", "project template not installed"},
	{"MSB1003", "no project or solution file to operate on"},
	{"toolchain unavailable", "toolchain not installed or not on PATH"},
}

func rootCauseFor(out Outcome) string {
	text := strings.ToLower(out.Actual + "\n" + out.Detail)
	for _, rc := range rootCauses {
		if strings.Contains(text, strings.ToLower(rc.marker)) {
			return rc.cause
		}
	}
	if first := util.FirstLine(out.Detail); first != "" {
		return first
	}
	return "command did not produce the expected state"
}

// suggestionFor proposes a runbook improvement for a failed step. The
// error summary carries it so the next revision of the guide can head
// the failure off.
func suggestionFor(action string) string {
	switch {
	case strings.HasPrefix(action, "add-package"):
		return "pin a package version known to exist on the configured feeds"
	case action == "build-solution":
		return "add a remediation entry matching the compiler error to the runbook"
	case action == "run-tests":
		return "note the failing test suite and its fix in the runbook's remediation section"
	case strings.HasPrefix(action, "create-project"):
		return "list the template's install command in the runbook prerequisites"
	default:
		return "document this failure and its resolution in the runbook's remediation section"
	}
}
