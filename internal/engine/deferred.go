// Commit-time evaluation of deferred restrict checks.
// Implements: prd005-cascade-engine R5 (deferred queue drained once at commit).
package engine

import (
	"fmt"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// OnCommit re-evaluates the transaction's pending restrict checks against
// current state, in recording order. A check passes when no live link row
// with that link still references the deleted target: the reference was
// cleared, re-pointed, or its source deleted since the check was recorded.
// The first failing check aborts the commit with a
// ConstraintViolationError; the caller rolls the transaction back.
//
// Wired as the backend transaction's commit hook, so the queue is drained
// exactly once and discarded untouched on rollback.
func (e *Engine) OnCommit(txn Txn) error {
	for _, check := range txn.Deferred() {
		refs, err := txn.InboundRefs(check.SourceType, check.Link, check.TargetID)
		if err != nil {
			return fmt.Errorf("evaluating deferred check on %s (%s): %w",
				check.TargetType, check.TargetID, err)
		}
		if len(refs) > 0 {
			return &types.ConstraintViolationError{
				TargetType: check.TargetType,
				TargetID:   check.TargetID,
				Link:       check.Link,
			}
		}
	}
	return nil
}
