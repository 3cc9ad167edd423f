// Store lifecycle: attach, schema install, persistence across re-attach.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/ripple/internal/sqlite"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

func TestStoreLifecycle_AttachInstallsSchema(t *testing.T) {
	b, _ := setupStore(t)

	s := b.Schema()
	if s == nil {
		t.Fatal("expected schema to be compiled on attach")
	}

	// Abstract types resolve but cannot be instantiated.
	objects := mustGetTable(t, b, types.ObjectsTable)
	if _, err := objects.Set("", &types.Object{Type: "Named", Name: "x"}); err == nil {
		t.Fatal("expected abstract type insert to fail")
	}

	// Every concrete type from the document is present.
	for _, name := range []string{"Team", "Person", "Task", "Report"} {
		if _, ok := s.Type(name); !ok {
			t.Errorf("type %s missing from compiled schema", name)
		}
	}
}

func TestStoreLifecycle_DataSurvivesReattach(t *testing.T) {
	b, dir := setupStore(t)

	team := mustInsert(t, b, "Team", "core")
	person := mustInsert(t, b, "Person", "alice")
	mustLink(t, b, "team", person, team)

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	// Re-attach without SchemaFile: the persisted schema copy is picked up.
	b2 := sqlite.NewBackend()
	err := b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir})
	if err != nil {
		t.Fatalf("re-Attach: %v", err)
	}
	defer b2.Detach()

	if b2.Schema() == nil {
		t.Fatal("expected persisted schema copy to load on re-attach")
	}
	if !objectExists(t, b2, team) || !objectExists(t, b2, person) {
		t.Error("objects lost across re-attach")
	}
	if got := linkCount(t, b2, map[string]any{"source_id": person}); got != 1 {
		t.Errorf("links lost across re-attach: got %d rows", got)
	}
}

func TestStoreLifecycle_SchemaLoadReplacesSchema(t *testing.T) {
	b, dir := setupStore(t)

	minimal := "types:\n  - name: Widget\n"
	path := filepath.Join(dir, "minimal.yaml")
	writeFile(t, path, minimal)

	if err := b.LoadSchema(path); err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}

	s := b.Schema()
	if _, ok := s.Type("Widget"); !ok {
		t.Error("new schema not installed")
	}
	if _, ok := s.Type("Team"); ok {
		t.Error("old schema still visible after replacement")
	}
}
