// In-memory Txn fake and schema fixtures shared by the engine tests.
package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ripple/internal/schema"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// memTxn implements Txn over plain maps. Mutations take effect immediately;
// the fields record what was applied so tests can assert ordering and
// atomicity.
type memTxn struct {
	objects  map[string]string // id -> concrete type
	rows     []memRow
	deferred []types.PendingRestrictCheck

	clearCalls  int
	deleteCalls int
}

type memRow struct {
	linkID   string
	linkName string
	sourceID string
	targetID string
}

func newMemTxn() *memTxn {
	return &memTxn{objects: make(map[string]string)}
}

func (m *memTxn) addObject(id, typeName string) {
	m.objects[id] = typeName
}

func (m *memTxn) addLink(linkName, sourceID, targetID string) string {
	linkID := fmt.Sprintf("link-%d", len(m.rows))
	m.rows = append(m.rows, memRow{
		linkID:   linkID,
		linkName: linkName,
		sourceID: sourceID,
		targetID: targetID,
	})
	return linkID
}

func (m *memTxn) ObjectType(id string) (string, error) {
	typeName, ok := m.objects[id]
	if !ok {
		return "", types.ErrNotFound
	}
	return typeName, nil
}

func (m *memTxn) InboundRefs(sourceType, linkName, targetID string) ([]Ref, error) {
	var refs []Ref
	for _, r := range m.rows {
		if r.linkName == linkName && r.targetID == targetID && m.objects[r.sourceID] == sourceType {
			refs = append(refs, Ref{
				LinkID:     r.linkID,
				SourceID:   r.sourceID,
				SourceType: sourceType,
			})
		}
	}
	return refs, nil
}

func (m *memTxn) ClearLinks(linkIDs []string) error {
	m.clearCalls++
	drop := make(map[string]bool, len(linkIDs))
	for _, id := range linkIDs {
		drop[id] = true
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !drop[r.linkID] {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memTxn) DeleteObjects(ids []string) error {
	m.deleteCalls++
	dead := make(map[string]bool, len(ids))
	for _, id := range ids {
		dead[id] = true
		delete(m.objects, id)
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !dead[r.sourceID] {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memTxn) Defer(check types.PendingRestrictCheck) {
	m.deferred = append(m.deferred, check)
}

func (m *memTxn) Deferred() []types.PendingRestrictCheck {
	return m.deferred
}

// hasObject reports whether the object still exists.
func (m *memTxn) hasObject(id string) bool {
	_, ok := m.objects[id]
	return ok
}

// refCount counts live rows for the given link name and target.
func (m *memTxn) refCount(linkName, targetID string) int {
	n := 0
	for _, r := range m.rows {
		if r.linkName == linkName && r.targetID == targetID {
			n++
		}
	}
	return n
}

// schemaParse compiles an inline YAML schema document.
func schemaParse(doc string) (*schema.Schema, error) {
	return schema.Parse([]byte(doc))
}

// targetSchema mirrors the behaviour suite's fixture: one target hierarchy
// and sources with one link per action, in single and multi cardinality.
func targetSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(`
types:
  - name: Named
    abstract: true
  - name: Target1
    extends: [Named]
  - name: Target1Child
    extends: [Target1]
  - name: Source1
    extends: [Named]
    links:
      - name: tgt1_restrict
        target: Target1
      - name: tgt1_deferred_restrict
        target: Target1
        on_target_delete: deferred-restrict
      - name: tgt1_set_empty
        target: Target1
        on_target_delete: set-empty
      - name: tgt1_del_source
        target: Target1
        on_target_delete: delete-source
      - name: tgt1_m2m_restrict
        target: Target1
        cardinality: multi
      - name: tgt1_m2m_del_source
        target: Target1
        cardinality: multi
        on_target_delete: delete-source
  - name: Source2
    extends: [Named]
    links:
      - name: src1_del_source
        target: Source1
        on_target_delete: delete-source
  - name: Source3
    extends: [Source1]
`))
	require.NoError(t, err)
	return s
}
