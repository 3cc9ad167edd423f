// Package integration provides shared test helpers for integration tests.
// Implements: test suites for rel01.0-uc001 through rel01.0-uc004.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/ripple/internal/sqlite"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// trackerSchema is a small project-tracker schema exercising every
// on-target-delete action. Team deletion sweeps away its people; a person's
// tasks lose their assignee; a task that blocks another cannot be deleted;
// reports hold deferred references to their subject.
const trackerSchema = `
types:
  - name: Named
    abstract: true

  - name: Team
    extends: [Named]

  - name: Person
    extends: [Named]
    links:
      - name: team
        target: Team
        on_target_delete: delete-source

  - name: Task
    extends: [Named]
    links:
      - name: assignee
        target: Person
        on_target_delete: set-empty
      - name: blocked_by
        target: Task
        cardinality: multi
        on_target_delete: restrict

  - name: Report
    extends: [Named]
    links:
      - name: subject
        target: Person
        on_target_delete: deferred-restrict
`

// setupStore creates a backend attached to an isolated temp directory with
// the tracker schema installed. Each test case gets its own store.
func setupStore(t *testing.T) (*sqlite.Backend, string) {
	t.Helper()
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "tracker.yaml")
	if err := os.WriteFile(schemaPath, []byte(trackerSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	b := sqlite.NewBackend()
	err := b.Attach(types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dir,
		SchemaFile: schemaPath,
	})
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, dir
}

// mustGetTable retrieves a table by name or fails the test.
func mustGetTable(t *testing.T, b *sqlite.Backend, name string) types.Table {
	t.Helper()
	tbl, err := b.GetTable(name)
	if err != nil {
		t.Fatalf("GetTable(%q): %v", name, err)
	}
	return tbl
}

// mustInsert creates an object and returns its id.
func mustInsert(t *testing.T, b *sqlite.Backend, typeName, name string) string {
	t.Helper()
	objects := mustGetTable(t, b, types.ObjectsTable)
	id, err := objects.Set("", &types.Object{Type: typeName, Name: name})
	if err != nil {
		t.Fatalf("insert %s %q: %v", typeName, name, err)
	}
	return id
}

// mustLink creates a link row and returns its id.
func mustLink(t *testing.T, b *sqlite.Backend, linkName, sourceID, targetID string) string {
	t.Helper()
	links := mustGetTable(t, b, types.LinksTable)
	id, err := links.Set("", &types.Link{Name: linkName, SourceID: sourceID, TargetID: targetID})
	if err != nil {
		t.Fatalf("link %s %s->%s: %v", linkName, sourceID, targetID, err)
	}
	return id
}

// writeFile writes content to path or fails the test.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// objectExists reports whether the objects table still holds id.
func objectExists(t *testing.T, b *sqlite.Backend, id string) bool {
	t.Helper()
	objects := mustGetTable(t, b, types.ObjectsTable)
	_, err := objects.Get(id)
	if err == nil {
		return true
	}
	return false
}

// linkCount returns the number of link rows matching the filter.
func linkCount(t *testing.T, b *sqlite.Backend, filter map[string]any) int {
	t.Helper()
	links := mustGetTable(t, b, types.LinksTable)
	rows, err := links.Fetch(filter)
	if err != nil {
		t.Fatalf("Fetch links: %v", err)
	}
	return len(rows)
}
