package runner

import (
	"context"
	"strings"

	"nathanbeddoewebdev/conform/internal/domain"
)

// Remedy is a single documented resolution for a failed action. The
// runner applies at most one remedy per failure, then re-runs the
// action once to verify. There is no retry loop.
type Remedy struct {
	Name        string
	Description string

	// Apply runs the remedy's own commands, when it has any. A nil
	// Apply means the remedy is simply "run the action again".
	Apply func(ctx context.Context) Outcome
}

// selectRemedy picks the remediation for a failed action: the first
// runbook remedy whose match text appears in the failure output wins,
// then the action's built-in remedy, then nothing.
func (r *Runner) selectRemedy(a Action, out Outcome) *Remedy {
	text := out.Actual + "\n" + out.Detail
	for _, spec := range r.bp.Remedies {
		if spec.Match == "" || !strings.Contains(text, spec.Match) {
			continue
		}
		return r.remedyFromSpec(spec)
	}
	return a.Remedy
}

// remedyFromSpec builds a runnable remedy from a runbook declaration.
// Unknown actions degrade to a plain retry so a typo in the runbook
// still gets the failure one more chance.
func (r *Runner) remedyFromSpec(spec domain.RemedySpec) *Remedy {
	rem := &Remedy{Name: spec.Action, Description: spec.Description}
	if rem.Name == "" {
		rem.Name = domain.RemedyRetry
	}
	if rem.Description == "" {
		rem.Description = rem.Name
	}
	switch spec.Action {
	case domain.RemedyClearPackageCache:
		rem.Apply = func(ctx context.Context) Outcome {
			result, err := r.tc.ClearPackageCache(ctx)
			return outcomeFromResult("clear package cache", result, err)
		}
	case domain.RemedyRestore:
		rem.Apply = func(ctx context.Context) Outcome {
			result, err := r.tc.Restore(ctx, ".")
			return outcomeFromResult("restore", result, err)
		}
	}
	return rem
}

// clearCacheRemedy is the built-in fallback for package installs that
// fail against a stale or corrupt local cache.
func (r *Runner) clearCacheRemedy() *Remedy {
	return &Remedy{
		Name:        domain.RemedyClearPackageCache,
		Description: "clear the local package cache and retry the install",
		Apply: func(ctx context.Context) Outcome {
			result, err := r.tc.ClearPackageCache(ctx)
			return outcomeFromResult("clear package cache", result, err)
		},
	}
}

// restoreRemedy is the built-in fallback for build failures caused by
// missing or stale restored dependencies.
func (r *Runner) restoreRemedy() *Remedy {
	return &Remedy{
		Name:        domain.RemedyRestore,
		Description: "restore dependencies and retry the build",
		Apply: func(ctx context.Context) Outcome {
			result, err := r.tc.Restore(ctx, ".")
			return outcomeFromResult("restore", result, err)
		},
	}
}
