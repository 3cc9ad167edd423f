// Cascade execution: iterate the planner to a fixed point, then apply the
// plan atomically within the transaction.
// Implements: prd005-cascade-engine R2-R4 (worklist, all-or-nothing apply).
package engine

import (
	"fmt"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// PlanDelete plans the cascading deletion of the given targets inside the
// open transaction. Each round's delete-source hits become the next round's
// targets; the explicit worklist and the closure make termination and
// duplicate avoidance hold even over cyclic object graphs. No mutation is
// applied.
//
// A surviving restrict violation from any round aborts the whole plan with
// a ConstraintViolationError.
func (e *Engine) PlanDelete(txn Txn, targetIDs []string) (*DeletePlan, error) {
	plan := &DeletePlan{}
	cl := newClosure()
	var violations []restrictViolation

	work := append([]string(nil), targetIDs...)
	for len(work) > 0 {
		next, err := e.planRound(txn, work, cl, plan, &violations)
		if err != nil {
			return nil, err
		}
		work = next
	}

	// A restrict reference only violates if its source row survives the
	// operation. Sources swept into the closure by a later round are
	// deleted alongside the target.
	for _, v := range violations {
		if !cl.has(v.sourceID) {
			return nil, &types.ConstraintViolationError{
				TargetType: v.targetType,
				TargetID:   v.targetID,
				Link:       v.link,
			}
		}
	}

	// Set-empty mutations on rows that are themselves deleted are moot;
	// their link rows vanish with the source.
	ops := plan.SetEmptyOps[:0]
	for _, op := range plan.SetEmptyOps {
		if !cl.has(op.SourceID) {
			ops = append(ops, op)
		}
	}
	plan.SetEmptyOps = ops

	return plan, nil
}

// ExecuteDelete plans and applies a cascading delete. On success the
// transaction holds all set-empty clears and the deletion of the full
// closure; the plan's deferred checks are queued on the transaction for
// commit-time evaluation. On failure nothing has been applied.
func (e *Engine) ExecuteDelete(txn Txn, targetIDs []string) (*DeletePlan, error) {
	plan, err := e.PlanDelete(txn, targetIDs)
	if err != nil {
		return nil, err
	}
	if err := e.apply(txn, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// apply writes the plan into the transaction: clears first, then the
// deletion of the whole closure as one unit, then the deferred checks onto
// the transaction's queue.
func (e *Engine) apply(txn Txn, plan *DeletePlan) error {
	if len(plan.SetEmptyOps) > 0 {
		linkIDs := make([]string, len(plan.SetEmptyOps))
		for i, op := range plan.SetEmptyOps {
			linkIDs[i] = op.LinkID
		}
		if err := txn.ClearLinks(linkIDs); err != nil {
			return fmt.Errorf("applying set-empty mutations: %w", err)
		}
	}

	if len(plan.DeleteSet) > 0 {
		if err := txn.DeleteObjects(plan.DeleteSet); err != nil {
			return fmt.Errorf("applying deletions: %w", err)
		}
	}

	for _, check := range plan.DeferredChecks {
		txn.Defer(check)
	}
	return nil
}
