// Delete planning: one classification round over a batch of delete targets.
// Implements: prd004-delete-policies R3 (classification per action);
//
//	prd005-cascade-engine R1 (delete closure, duplicate avoidance).
package engine

import (
	"fmt"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// closure is the set of object ids already scheduled for deletion within
// one cascading operation. It prevents reprocessing and bounds cycles; an
// id never appears twice across cascade paths.
type closure struct {
	ids map[string]bool
}

func newClosure() *closure {
	return &closure{ids: make(map[string]bool)}
}

func (c *closure) has(id string) bool { return c.ids[id] }
func (c *closure) add(id string)      { c.ids[id] = true }

// restrictViolation records an immediate-restrict reference found during
// planning. Violations are judged only after the closure is complete: a
// referencing row whose source is itself scheduled for deletion is removed
// by the same operation and does not violate.
type restrictViolation struct {
	targetType string
	targetID   string
	link       string
	sourceID   string
}

// planRound classifies all inbound references of the given delete targets.
// Ids already in the closure are skipped. Returns the source ids scheduled
// by delete-source links, which become the next round's targets.
func (e *Engine) planRound(
	txn Txn,
	ids []string,
	cl *closure,
	plan *DeletePlan,
	violations *[]restrictViolation,
) ([]string, error) {
	var next []string

	for _, id := range ids {
		if cl.has(id) {
			continue
		}
		typeName, err := txn.ObjectType(id)
		if err != nil {
			return nil, fmt.Errorf("resolving delete target %s: %w", id, err)
		}
		cl.add(id)
		plan.DeleteSet = append(plan.DeleteSet, id)

		for _, entry := range e.schema.InboundLinks(typeName) {
			refs, err := txn.InboundRefs(entry.Source, entry.Name, id)
			if err != nil {
				return nil, fmt.Errorf("fetching refs of %s via %s.%s: %w",
					id, entry.Source, entry.Name, err)
			}
			if len(refs) == 0 {
				continue
			}

			// Violations and deferred checks report the link's declared
			// target type, not the deleted row's concrete type: deleting a
			// subtype row through a link declared against its supertype
			// names the supertype.
			switch entry.Action {
			case types.DeleteRestrict:
				for _, r := range refs {
					*violations = append(*violations, restrictViolation{
						targetType: entry.Target,
						targetID:   id,
						link:       entry.Name,
						sourceID:   r.SourceID,
					})
				}

			case types.DeleteDeferredRestrict:
				plan.DeferredChecks = append(plan.DeferredChecks, types.PendingRestrictCheck{
					TargetType: entry.Target,
					TargetID:   id,
					Link:       entry.Name,
					SourceType: entry.Source,
				})

			case types.DeleteSetEmpty:
				for _, r := range refs {
					plan.SetEmptyOps = append(plan.SetEmptyOps, SetEmptyOp{
						LinkID:      r.LinkID,
						Link:        entry.Name,
						SourceID:    r.SourceID,
						TargetID:    id,
						Cardinality: entry.Cardinality,
					})
				}

			case types.DeleteSource:
				for _, r := range refs {
					next = append(next, r.SourceID)
				}
			}
		}
	}

	return next, nil
}
