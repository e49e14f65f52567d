// Package runner executes a blueprint against a target tree as a fixed
// sequence of phases, journaling every attempted action.
//
// Execution is deliberately single threaded: one action at a time, one
// journal entry per attempt, appended before the next action starts.
// When an action fails the runner halts the phase, records the error,
// applies at most one documented remediation, re-verifies, and either
// resumes the phase or aborts the run.
package runner

import (
	"context"
	"fmt"
	"time"

	"nathanbeddoewebdev/conform/internal/diag"
	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/journal"
	"nathanbeddoewebdev/conform/internal/runbook"
	"nathanbeddoewebdev/conform/internal/tree"

	"go.uber.org/zap"
)

// Terminal run states recorded in history and the journal footer.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Options configures a single run.
type Options struct {
	Blueprint *runbook.Blueprint
	Target    string
	Toolchain domain.Toolchain
	Journal   *journal.Writer
	Summary   string
	Info      journal.RunInfo

	// Observer receives progress events. Optional.
	Observer Observer

	// CheckOnly stops after the validation phase without changing
	// the tree.
	CheckOnly bool
}

// Runner drives one blueprint run. It is not safe for concurrent use;
// create one per run.
type Runner struct {
	bp        *runbook.Blueprint
	target    string
	tc        domain.Toolchain
	jw        *journal.Writer
	summary   string
	info      journal.RunInfo
	obs       Observer
	checkOnly bool

	records  []journal.ErrorRecord
	warnings int
}

// New builds a runner from options. The journal writer stays owned by
// the caller; the runner appends to it and writes its footer but never
// closes it.
func New(opts Options) *Runner {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return &Runner{
		bp:        opts.Blueprint,
		target:    opts.Target,
		tc:        opts.Toolchain,
		jw:        opts.Journal,
		summary:   opts.Summary,
		info:      opts.Info,
		obs:       obs,
		checkOnly: opts.CheckOnly,
	}
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Status      string
	Steps       int
	Warnings    int
	Failures    int
	PhasesRun   []string
	Records     []journal.ErrorRecord
	JournalPath string
	SummaryPath string
	Duration    time.Duration
}

// Run executes the phases in order. It returns domain.ErrRunFailed
// (wrapped) when a failure could not be remediated, and a bare error
// when the journal itself could not be written; a dead journal ends
// the run immediately because an unrecorded action must not execute.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	res := &Result{
		RunID:       r.info.RunID,
		JournalPath: r.jw.Path(),
		SummaryPath: r.summary,
	}

	aborted := false
	var failedAction string
	for _, ph := range r.phaseList() {
		snap, err := tree.Take(r.target, r.bp.Solution)
		if err != nil {
			if jerr := r.failInspection(ph.name, err); jerr != nil {
				return res, jerr
			}
			aborted, failedAction = true, "inspect-tree"
			break
		}
		actions := ph.plan(r, snap)
		res.PhasesRun = append(res.PhasesRun, ph.name)
		diag.L().Debug("phase planned",
			zap.String("run", r.info.RunID),
			zap.String("phase", ph.name),
			zap.Int("actions", len(actions)))
		r.obs.PhaseStarted(ph.name, len(actions))
		for _, a := range actions {
			resolved, err := r.runAction(ctx, ph.name, a)
			if err != nil {
				return res, err
			}
			if !resolved {
				aborted, failedAction = true, a.Name
				break
			}
		}
		if aborted {
			break
		}
	}

	res.Steps = r.jw.Steps()
	res.Warnings = r.warnings
	res.Failures = len(r.records)
	res.Records = r.records
	res.Duration = time.Since(started)
	res.Status = RunSucceeded
	if aborted {
		res.Status = RunFailed
	}

	if err := r.jw.Finish(res.Status, time.Now()); err != nil {
		return res, err
	}
	if err := journal.WriteSummary(r.summary, r.info, r.records); err != nil {
		return res, err
	}
	r.obs.RunFinished(*res)

	if aborted {
		return res, fmt.Errorf("runner: %s: %w", failedAction, domain.ErrRunFailed)
	}
	return res, nil
}

// runAction drives one action through the execute, compare, classify,
// journal sequence. It reports whether the run may proceed; the error
// return is reserved for journal write failures, which are fatal.
func (r *Runner) runAction(ctx context.Context, phase string, a Action) (bool, error) {
	out := a.Execute(ctx)
	entry := r.entryFor(phase, a, out)

	if out.Status != domain.StatusFailed {
		entry.Decision = decisionFor(out)
		if _, err := r.append(entry); err != nil {
			return false, err
		}
		return true, nil
	}

	remedy := r.selectRemedy(a, out)
	diag.L().Debug("action failed",
		zap.String("action", a.Name),
		zap.String("actual", out.Actual),
		zap.Bool("remediable", remedy != nil))
	if remedy == nil {
		entry.Decision = "halt phase; no remediation documented; abort run"
		failed, err := r.append(entry)
		if err != nil {
			return false, err
		}
		rec := r.recordFor(failed, out)
		rec.Resolution = "none documented"
		rec.Verified = "not attempted"
		r.records = append(r.records, rec)
		return false, nil
	}

	entry.Decision = "halt phase; attempt documented remediation: " + remedy.Description
	failed, err := r.append(entry)
	if err != nil {
		return false, err
	}
	rec := r.recordFor(failed, out)
	rec.Resolution = remedy.Description

	if remedy.Apply != nil {
		rout := remedy.Apply(ctx)
		rentry := journal.Entry{
			Phase:       phase,
			Action:      "remedy-" + remedy.Name,
			Intent:      "apply documented remediation for " + a.Name,
			Command:     rout.Command,
			Expected:    "remediation completes",
			Actual:      rout.Actual,
			Status:      rout.Status,
			ErrorDetail: rout.Detail,
		}
		if rout.Status == domain.StatusFailed {
			rentry.Decision = "remediation could not be applied; abort run"
			if _, err := r.append(rentry); err != nil {
				return false, err
			}
			rec.Verified = "remediation could not be applied"
			r.records = append(r.records, rec)
			return false, nil
		}
		rentry.Decision = "re-run the failed action"
		if _, err := r.append(rentry); err != nil {
			return false, err
		}
	}

	out2 := a.Execute(ctx)
	entry2 := r.entryFor(phase, a, out2)
	if out2.Status != domain.StatusFailed {
		entry2.Decision = "remediation verified; resume phase"
		if _, err := r.append(entry2); err != nil {
			return false, err
		}
		rec.Verified = "re-run succeeded"
		r.records = append(r.records, rec)
		return true, nil
	}
	entry2.Decision = "remediation did not resolve the failure; abort run"
	if _, err := r.append(entry2); err != nil {
		return false, err
	}
	rec.Verified = "re-run failed"
	r.records = append(r.records, rec)
	return false, nil
}

func (r *Runner) entryFor(phase string, a Action, out Outcome) journal.Entry {
	files := append([]string{}, a.Files...)
	files = append(files, out.Files...)
	return journal.Entry{
		Phase:       phase,
		Action:      a.Name,
		Intent:      a.Intent,
		Command:     out.Command,
		Expected:    a.Expected,
		Actual:      out.Actual,
		Status:      out.Status,
		Files:       files,
		ErrorDetail: out.Detail,
	}
}

func decisionFor(out Outcome) string {
	if out.Status == domain.StatusWarning {
		if out.Workaround != "" {
			return "proceed with workaround: " + out.Workaround
		}
		return "proceed despite warning"
	}
	return "proceed"
}

// append writes one entry and fans it out to the observer. A write
// error is returned as-is; callers treat it as fatal to the run.
func (r *Runner) append(e journal.Entry) (journal.Entry, error) {
	appended, err := r.jw.Append(e)
	if err != nil {
		return journal.Entry{}, err
	}
	if appended.Status == domain.StatusWarning {
		r.warnings++
	}
	r.obs.EntryAppended(appended)
	return appended, nil
}

// failInspection journals the inability to read the target tree and
// records it. Nothing can run without a snapshot.
func (r *Runner) failInspection(phase string, cause error) error {
	out := failure("target tree could not be inspected", cause.Error())
	entry := journal.Entry{
		Phase:       phase,
		Action:      "inspect-tree",
		Intent:      "snapshot the target tree before planning the phase",
		Expected:    "target tree readable",
		Actual:      out.Actual,
		Status:      domain.StatusFailed,
		Decision:    "halt phase; no remediation documented; abort run",
		ErrorDetail: out.Detail,
	}
	failed, err := r.append(entry)
	if err != nil {
		return err
	}
	rec := r.recordFor(failed, out)
	rec.Resolution = "none documented"
	rec.Verified = "not attempted"
	r.records = append(r.records, rec)
	return nil
}

func (r *Runner) recordFor(e journal.Entry, out Outcome) journal.ErrorRecord {
	return journal.ErrorRecord{
		Title:      e.Action + " failed",
		Phase:      e.Phase,
		Section:    r.sectionFor(e.Phase),
		Severity:   domain.StatusFailed,
		Step:       e.Step,
		Expected:   e.Expected,
		Actual:     e.Actual,
		RootCause:  rootCauseFor(out),
		Suggestion: suggestionFor(e.Action),
	}
}

// sectionFor names the runbook section a phase's failures trace back
// to, so the error summary can point the reader at the right heading.
func (r *Runner) sectionFor(phase string) string {
	var section runbook.Section
	switch phase {
	case PhaseValidate, PhaseStructure:
		section = runbook.SectionProjects
	case PhasePackages:
		section = runbook.SectionPackages
	case PhaseReferences:
		section = runbook.SectionReferences
	default:
		if r.bp.Title != "" {
			return r.bp.Title
		}
		section = runbook.SectionProjects
	}
	if heading := r.bp.SectionHeading(section); heading != "" {
		return heading
	}
	return string(section)
}
