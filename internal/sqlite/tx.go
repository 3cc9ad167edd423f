// Transaction wrapper: engine graph access, statement operations, and the
// commit-phase hook that drains the deferred restrict queue.
// Implements: prd002-sqlite-backend R6 (transactions);
//
//	prd005-cascade-engine R5 (transaction-owned deferred queue, commit hook).
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/ripple/internal/engine"
	"github.com/mesh-intelligence/ripple/internal/schema"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// Tx is one open transaction over the object graph. It carries the
// transaction's deferred-check queue as an owned value: created by
// statements inside the transaction, consumed exactly once by the commit
// hook, discarded untouched on rollback.
type Tx struct {
	tx       *sql.Tx
	schema   *schema.Schema
	engine   *engine.Engine
	deferred []types.PendingRestrictCheck
	hooks    []func(*Tx) error
	done     bool
}

var _ engine.Txn = (*Tx)(nil)

// Begin opens a transaction. The delete engine's deferred-check evaluation
// is registered as a commit hook; Commit runs hooks before the SQL commit
// and rolls back on their failure.
func (b *Backend) Begin() (*Tx, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if _, err := b.requireSchema(); err != nil {
		return nil, err
	}

	sqlTx, err := b.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	t := &Tx{tx: sqlTx, schema: b.schema, engine: b.engine}
	eng := b.engine
	t.hooks = append(t.hooks, func(t *Tx) error {
		return eng.OnCommit(t)
	})
	return t, nil
}

// Commit runs the registered commit hooks in order, then commits. A hook
// failure rolls the transaction back, so no partial cascade effect survives
// a deferred restrict violation.
func (t *Tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	for _, hook := range t.hooks {
		if err := hook(t); err != nil {
			t.done = true
			_ = t.tx.Rollback()
			return err
		}
	}
	t.done = true
	return t.tx.Commit()
}

// Rollback aborts the transaction, discarding the deferred queue untouched.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.deferred = nil
	return t.tx.Rollback()
}

// DeleteCascade runs the full cascading delete of the given objects inside
// this transaction. Deferred restrict checks land on the transaction's
// queue for commit-time evaluation.
func (t *Tx) DeleteCascade(ids []string) (*engine.DeletePlan, error) {
	return t.engine.ExecuteDelete(t, ids)
}

// --- engine.Txn ---

// ObjectType returns the concrete type of the object with the given id.
func (t *Tx) ObjectType(id string) (string, error) {
	var typeName string
	err := t.tx.QueryRow(
		"SELECT type FROM objects WHERE object_id = ?", id,
	).Scan(&typeName)
	if err == sql.ErrNoRows {
		return "", types.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("resolving object type of %s: %w", id, err)
	}
	return typeName, nil
}

// InboundRefs returns the link rows with the given name whose source is of
// exactly sourceType and whose target is targetID.
func (t *Tx) InboundRefs(sourceType, linkName, targetID string) ([]engine.Ref, error) {
	rows, err := t.tx.Query(
		`SELECT l.link_id, l.source_id
         FROM links l JOIN objects o ON o.object_id = l.source_id
         WHERE l.link_name = ? AND l.target_id = ? AND o.type = ?`,
		linkName, targetID, sourceType,
	)
	if err != nil {
		return nil, fmt.Errorf("querying inbound refs: %w", err)
	}
	defer rows.Close()

	var refs []engine.Ref
	for rows.Next() {
		ref := engine.Ref{SourceType: sourceType}
		if err := rows.Scan(&ref.LinkID, &ref.SourceID); err != nil {
			return nil, fmt.Errorf("scanning inbound ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ClearLinks removes the given link rows.
func (t *Tx) ClearLinks(linkIDs []string) error {
	if len(linkIDs) == 0 {
		return nil
	}
	query := "DELETE FROM links WHERE link_id IN (" + placeholders(len(linkIDs)) + ")"
	if _, err := t.tx.Exec(query, toAnySlice(linkIDs)...); err != nil {
		return fmt.Errorf("clearing links: %w", err)
	}
	return nil
}

// DeleteObjects removes the given objects and all their outgoing link rows.
// Link rows pointing at the deleted objects through deferred-restrict links
// stay behind on purpose: the commit hook judges them.
func (t *Tx) DeleteObjects(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	ph := placeholders(len(ids))
	args := toAnySlice(ids)

	if _, err := t.tx.Exec(
		"DELETE FROM links WHERE source_id IN ("+ph+")", args...,
	); err != nil {
		return fmt.Errorf("deleting outgoing links: %w", err)
	}
	if _, err := t.tx.Exec(
		"DELETE FROM objects WHERE object_id IN ("+ph+")", args...,
	); err != nil {
		return fmt.Errorf("deleting objects: %w", err)
	}
	return nil
}

// Defer appends a pending restrict check to the transaction's queue.
func (t *Tx) Defer(check types.PendingRestrictCheck) {
	t.deferred = append(t.deferred, check)
}

// Deferred returns the queued checks in recording order.
func (t *Tx) Deferred() []types.PendingRestrictCheck {
	return t.deferred
}

// --- statement operations used by the CLI and exec scripts ---

// InsertObject creates an object of the given concrete type.
func (t *Tx) InsertObject(typeName, name string) (string, error) {
	def, ok := t.schema.Type(typeName)
	if !ok {
		return "", types.ErrTypeNotFound
	}
	if def.Abstract {
		return "", types.ErrAbstractType
	}

	id := generateUUID()
	_, err := t.tx.Exec(
		"INSERT INTO objects (object_id, type, name, created_at) VALUES (?, ?, ?, ?)",
		id, typeName, name, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting object: %w", err)
	}
	return id, nil
}

// SetLinkTargets replaces the targets of a link on one source object:
// existing rows for (source, link) are cleared and one row per target is
// inserted. This is the retargeting primitive an intervening update uses to
// satisfy a deferred restrict check before commit.
func (t *Tx) SetLinkTargets(sourceID, linkName string, targetIDs []string) error {
	el, err := t.linkFor(sourceID, linkName)
	if err != nil {
		return err
	}
	if el.Cardinality == types.CardinalitySingle && len(targetIDs) > 1 {
		return types.ErrCardinality
	}
	for _, targetID := range targetIDs {
		if err := t.checkTarget(el, targetID); err != nil {
			return err
		}
	}

	if _, err := t.tx.Exec(
		"DELETE FROM links WHERE source_id = ? AND link_name = ?",
		sourceID, linkName,
	); err != nil {
		return fmt.Errorf("clearing link %s.%s: %w", sourceID, linkName, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, targetID := range targetIDs {
		if _, err := t.tx.Exec(
			"INSERT INTO links (link_id, link_name, source_id, target_id, created_at) VALUES (?, ?, ?, ?, ?)",
			generateUUID(), linkName, sourceID, targetID, now,
		); err != nil {
			return fmt.Errorf("inserting link row: %w", err)
		}
	}
	return nil
}

// AddLinkTarget appends one target to a link. For single-cardinality links
// the link must currently be empty.
func (t *Tx) AddLinkTarget(sourceID, linkName, targetID string) (string, error) {
	el, err := t.linkFor(sourceID, linkName)
	if err != nil {
		return "", err
	}
	if err := t.checkTarget(el, targetID); err != nil {
		return "", err
	}

	var count int
	if err := t.tx.QueryRow(
		"SELECT COUNT(*) FROM links WHERE source_id = ? AND link_name = ?",
		sourceID, linkName,
	).Scan(&count); err != nil {
		return "", fmt.Errorf("checking link cardinality: %w", err)
	}
	if el.Cardinality == types.CardinalitySingle && count > 0 {
		return "", types.ErrCardinality
	}

	var dup int
	if err := t.tx.QueryRow(
		"SELECT COUNT(*) FROM links WHERE source_id = ? AND link_name = ? AND target_id = ?",
		sourceID, linkName, targetID,
	).Scan(&dup); err != nil {
		return "", fmt.Errorf("checking link uniqueness: %w", err)
	}
	if dup > 0 {
		return "", types.ErrDuplicateLink
	}

	id := generateUUID()
	if _, err := t.tx.Exec(
		"INSERT INTO links (link_id, link_name, source_id, target_id, created_at) VALUES (?, ?, ?, ?, ?)",
		id, linkName, sourceID, targetID, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("inserting link row: %w", err)
	}
	return id, nil
}

// ClearLink removes all rows of a link on one source object.
func (t *Tx) ClearLink(sourceID, linkName string) error {
	if _, err := t.linkFor(sourceID, linkName); err != nil {
		return err
	}
	if _, err := t.tx.Exec(
		"DELETE FROM links WHERE source_id = ? AND link_name = ?",
		sourceID, linkName,
	); err != nil {
		return fmt.Errorf("clearing link %s.%s: %w", sourceID, linkName, err)
	}
	return nil
}

// linkFor resolves the effective link with the given name on the source
// object's concrete type.
func (t *Tx) linkFor(sourceID, linkName string) (*schema.EffectiveLink, error) {
	sourceType, err := t.ObjectType(sourceID)
	if err != nil {
		return nil, err
	}
	el, ok := t.schema.EffectiveLink(sourceType, linkName)
	if !ok {
		return nil, types.ErrLinkNotFound
	}
	return el, nil
}

// checkTarget verifies the target object exists and its type is subsumed by
// the link's declared target.
func (t *Tx) checkTarget(el *schema.EffectiveLink, targetID string) error {
	targetType, err := t.ObjectType(targetID)
	if err != nil {
		return err
	}
	if !t.schema.IsSubtype(targetType, el.Target) {
		return types.ErrTargetMismatch
	}
	return nil
}

// placeholders builds "?, ?, ..." for n parameters.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// toAnySlice adapts string ids to Exec variadic args.
func toAnySlice(ids []string) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
