package runner

import (
	"context"

	"nathanbeddoewebdev/conform/internal/tree"
)

// planBuild compiles the whole solution in one action. The restore
// remedy covers the common failure mode of stale or missing restored
// dependencies.
func planBuild(r *Runner, snap *tree.Snapshot) []Action {
	return []Action{{
		Name:     "build-solution",
		Intent:   "compile every project in the solution",
		Expected: "build exits zero",
		Remedy:   r.restoreRemedy(),
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.Build(ctx, ".")
			return outcomeFromResult("build", result, err)
		},
	}}
}

// planTest runs the solution's test suites. A solution without test
// projects passes trivially.
func planTest(r *Runner, snap *tree.Snapshot) []Action {
	return []Action{{
		Name:     "run-tests",
		Intent:   "run every test suite in the solution",
		Expected: "all tests pass",
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.Test(ctx, ".")
			return outcomeFromResult("test", result, err)
		},
	}}
}
