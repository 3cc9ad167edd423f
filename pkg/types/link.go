// Link entity: a directed reference between stored objects.
// Implements: prd001-store-core R3 (entities); prd002-sqlite-backend R5 (link rows).
package types

import "time"

// Link is one stored link value: a directed edge from a source object to a
// target object under a schema-declared link name. A single-cardinality link
// holds at most one Link row per source; a multi link holds one row per
// target.
type Link struct {
	// LinkID is a UUID v7, generated on creation.
	LinkID string

	// Name is the schema link name declared on the source object's type or
	// one of its ancestors.
	Name string

	// SourceID is the referencing object.
	SourceID string

	// TargetID is the referenced object.
	TargetID string

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time
}

// PendingRestrictCheck records a deferred restrict evaluation: a
// DeleteDeferredRestrict target was deleted inside an open transaction and
// the check is postponed to commit. Created by the delete planner, consumed
// exactly once when the transaction commits, discarded on rollback.
type PendingRestrictCheck struct {
	// TargetType is the link's declared target type, which names the
	// deleted object in the violation message even when the deleted row
	// is of a subtype.
	TargetType string

	// TargetID is the deleted target object.
	TargetID string

	// Link is the link name whose policy deferred the check.
	Link string

	// SourceType is the concrete source type the policy resolved on.
	SourceType string
}
