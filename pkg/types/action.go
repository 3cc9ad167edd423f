// Delete action and cardinality constants for schema links.
// Implements: prd004-delete-policies R1 (four built-in actions, restrict default).
package types

// DeleteAction is the on-target-delete policy of a link: what happens to the
// referencing source row when the link's target object is deleted.
type DeleteAction string

const (
	// DeleteRestrict forbids deleting a referenced target. Default when no
	// declaration exists anywhere in the link's ancestry.
	DeleteRestrict DeleteAction = "restrict"

	// DeleteDeferredRestrict postpones the restrict check to transaction
	// commit. The delete statement itself succeeds.
	DeleteDeferredRestrict DeleteAction = "deferred-restrict"

	// DeleteSetEmpty clears the link on every referencing row. The
	// referencing row itself survives.
	DeleteSetEmpty DeleteAction = "set-empty"

	// DeleteSource deletes every referencing source row, cascading
	// transitively.
	DeleteSource DeleteAction = "delete-source"
)

// validDeleteActions is the set of recognized action values.
var validDeleteActions = map[DeleteAction]bool{
	DeleteRestrict:         true,
	DeleteDeferredRestrict: true,
	DeleteSetEmpty:         true,
	DeleteSource:           true,
}

// ValidDeleteAction reports whether a is one of the four built-in actions.
func ValidDeleteAction(a DeleteAction) bool {
	return validDeleteActions[a]
}

// Cardinality is the multiplicity of a link: at most one target (single) or
// a set of targets (multi).
type Cardinality string

const (
	CardinalitySingle Cardinality = "single"
	CardinalityMulti  Cardinality = "multi"
)

// ValidCardinality reports whether c is a recognized cardinality value.
func ValidCardinality(c Cardinality) bool {
	return c == CardinalitySingle || c == CardinalityMulti
}
