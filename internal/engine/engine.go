// Package engine plans and executes cascading deletes over the live object
// graph. It classifies every inbound reference of a deleted object by the
// resolved on-target-delete action of its link, expands delete-source
// cascades to a fixed point, and defers restrict checks to transaction
// commit. The engine never touches storage directly; it runs against the
// Txn interface provided by the backend's open transaction.
// Implements: prd004-delete-policies R3-R5 (planning, classification);
//
//	prd005-cascade-engine (fixed point, atomic apply, commit hook);
//	docs/ARCHITECTURE § Delete Engine.
package engine

import (
	"github.com/mesh-intelligence/ripple/internal/schema"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// Ref is one stored link row referencing a delete target, as reported by
// the transaction.
type Ref struct {
	LinkID     string
	SourceID   string
	SourceType string
}

// Txn is the slice of an open transaction the engine needs: reads over the
// current object graph, the two mutations a delete plan applies, and the
// transaction-owned deferred check queue. Implemented by the SQLite
// backend's Tx.
type Txn interface {
	// ObjectType returns the concrete type of the object with the given id.
	// Returns types.ErrNotFound if no such object exists.
	ObjectType(id string) (string, error)

	// InboundRefs returns every link row with the given link name whose
	// source is of exactly sourceType and whose target is targetID.
	InboundRefs(sourceType, linkName, targetID string) ([]Ref, error)

	// ClearLinks removes the given link rows. Clearing a single link nulls
	// the value; clearing one row of a multi link removes that one target.
	ClearLinks(linkIDs []string) error

	// DeleteObjects removes the given objects and all their outgoing link
	// rows as one unit.
	DeleteObjects(ids []string) error

	// Defer appends a pending restrict check to the transaction's queue.
	Defer(check types.PendingRestrictCheck)

	// Deferred returns the queued checks in recording order.
	Deferred() []types.PendingRestrictCheck
}

// SetEmptyOp schedules clearing one link row: the referencing row survives
// with the link value removed.
type SetEmptyOp struct {
	LinkID      string
	Link        string
	SourceID    string
	TargetID    string
	Cardinality types.Cardinality
}

// DeletePlan is the outcome of planning one cascading delete: the union
// delete set across all rounds in scheduling order, the set-empty mutations
// to apply, and the restrict checks postponed to commit. Nothing in the
// plan has been applied yet.
type DeletePlan struct {
	DeleteSet      []string
	SetEmptyOps    []SetEmptyOp
	DeferredChecks []types.PendingRestrictCheck
}

// Engine executes deletes against a compiled schema. Stateless between
// calls; all per-operation state lives in the plan and the transaction.
type Engine struct {
	schema *schema.Schema
}

// New creates an Engine over a compiled schema.
func New(s *schema.Schema) *Engine {
	return &Engine{schema: s}
}

// Schema returns the compiled schema the engine was built over.
func (e *Engine) Schema() *schema.Schema {
	return e.schema
}
