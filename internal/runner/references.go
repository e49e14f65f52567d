package runner

import (
	"context"
	"fmt"

	"nathanbeddoewebdev/conform/internal/domain"
	"nathanbeddoewebdev/conform/internal/tree"
)

// planReferences wires every declared project reference not already in
// the tree. Direction is validated at lint time; by this phase the
// declarations are trusted.
func planReferences(r *Runner, snap *tree.Snapshot) []Action {
	var actions []Action
	for _, ref := range r.bp.References {
		if snap.HasReference(ref.From, ref.To) {
			continue
		}
		actions = append(actions, r.addReference(ref, snap))
	}
	return actions
}

func (r *Runner) addReference(ref domain.ReferenceSpec, snap *tree.Snapshot) Action {
	from := r.projectFile(ref.From, snap)
	to := r.projectFile(ref.To, snap)
	return Action{
		Name:     fmt.Sprintf("add-reference %s -> %s", ref.From, ref.To),
		Intent:   fmt.Sprintf("wire a project reference from %s to %s", ref.From, ref.To),
		Expected: fmt.Sprintf("%s references %s", ref.From, ref.To),
		Files:    []string{from},
		Execute: func(ctx context.Context) Outcome {
			result, err := r.tc.AddReference(ctx, from, to)
			return outcomeFromResult(
				fmt.Sprintf("add reference %s -> %s", ref.From, ref.To), result, err)
		},
	}
}
