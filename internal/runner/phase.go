package runner

import "nathanbeddoewebdev/conform/internal/tree"

// Phase names, in execution order.
const (
	PhaseValidate   = "validate"
	PhaseStructure  = "structure"
	PhasePackages   = "packages"
	PhaseReferences = "references"
	PhaseBuild      = "build"
	PhaseTest       = "test"
)

type phase struct {
	name string
	plan func(r *Runner, snap *tree.Snapshot) []Action
}

// phases is the fixed execution order. The runner never reorders or
// skips ahead; a phase only starts once the previous one finished
// without an unresolved failure.
var phases = []phase{
	{PhaseValidate, planValidate},
	{PhaseStructure, planStructure},
	{PhasePackages, planPackages},
	{PhaseReferences, planReferences},
	{PhaseBuild, planBuild},
	{PhaseTest, planTest},
}

// Phases returns the phase names in execution order.
func Phases() []string {
	names := make([]string, len(phases))
	for i, ph := range phases {
		names[i] = ph.name
	}
	return names
}

func (r *Runner) phaseList() []phase {
	if r.checkOnly {
		return phases[:1]
	}
	return phases
}

// PhasePlan describes what one phase would do against the current
// tree, without executing anything.
type PhasePlan struct {
	Phase   string
	Actions []Action
}

// Plan computes every phase's actions from a single snapshot of the
// target tree. Action Execute closures are never invoked, so planning
// works without a usable toolchain. Later phases are planned against
// the same snapshot; a real run refreshes it between phases.
func (r *Runner) Plan() ([]PhasePlan, error) {
	snap, err := tree.Take(r.target, r.bp.Solution)
	if err != nil {
		return nil, err
	}
	plans := make([]PhasePlan, 0, len(phases))
	for _, ph := range r.phaseList() {
		plans = append(plans, PhasePlan{Phase: ph.name, Actions: ph.plan(r, snap)})
	}
	return plans, nil
}
