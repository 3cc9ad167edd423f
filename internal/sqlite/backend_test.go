// Tests for SQLite backend lifecycle and schema compilation.
// Implements: prd002-sqlite-backend acceptance criteria (unit tests).
package sqlite

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

// testSchema is the behaviour-suite fixture used across backend tests.
const testSchema = `
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
`

// writeTestSchema writes the fixture schema document into dir.
func writeTestSchema(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test-schema.yaml")
	if err := os.WriteFile(path, []byte(testSchema), 0o644); err != nil {
		t.Fatalf("writing schema fixture: %v", err)
	}
	return path
}

// setupBackend creates a backend attached to an isolated temp directory with
// the fixture schema compiled.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	dir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dir,
		SchemaFile: writeTestSchema(t, dir),
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendAttach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, dbFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("ripple.db not created")
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackendAttachCompilesSchema(t *testing.T) {
	b := setupBackend(t)

	compiled := b.Schema()
	if compiled == nil {
		t.Fatal("schema not compiled on attach")
	}
	el, ok := compiled.EffectiveLink("Source3", "tgt1_set_empty")
	if !ok {
		t.Fatal("Source3 did not inherit tgt1_set_empty")
	}
	if el.Action != types.DeleteSetEmpty {
		t.Errorf("expected set-empty, got %s", el.Action)
	}
}

func TestBackendAttachRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	doc := `
types:
  - name: Object
  - name: A
    links: [{name: foo, target: Object, on_target_delete: restrict}]
  - name: B
    links: [{name: foo, target: Object, on_target_delete: set-empty}]
  - name: C
    extends: [A, B]
`
	if err := os.WriteFile(bad, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewBackend()
	err := b.Attach(types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dir,
		SchemaFile: bad,
	})
	if err == nil {
		b.Detach()
		t.Fatal("expected schema compilation failure")
	}
	want := "cannot implicitly resolve the `on target delete` action for 'C.foo'"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error %q does not contain %q", got, want)
	}
}

func TestBackendDetach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}
	b.Attach(config)

	err := b.Detach()
	if err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	err = b.Detach()
	if err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	_, err = b.GetTable(types.ObjectsTable)
	if err != types.ErrStoreDetached {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestBackendGetTable(t *testing.T) {
	b := setupBackend(t)

	for _, name := range types.StandardTableNames {
		if _, err := b.GetTable(name); err != nil {
			t.Errorf("GetTable(%q) failed: %v", name, err)
		}
	}

	if _, err := b.GetTable("bogus"); err != types.ErrTableNotFound {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestBackendLoadSchemaPersistsCopy(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	if err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if b.Schema() != nil {
		t.Fatal("no schema expected before load")
	}
	if _, err := b.Begin(); err != types.ErrSchemaNotLoaded {
		t.Errorf("expected ErrSchemaNotLoaded, got %v", err)
	}

	if err := b.LoadSchema(writeTestSchema(t, dir)); err != nil {
		t.Fatalf("LoadSchema failed: %v", err)
	}
	if b.Schema() == nil {
		t.Fatal("schema not installed by LoadSchema")
	}
	b.Detach()

	// The persisted copy is picked up by the next Attach without an
	// explicit schema_file.
	b2 := NewBackend()
	if err := b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()
	if b2.Schema() == nil {
		t.Fatal("persisted schema copy not compiled on re-attach")
	}
}

func TestBackendPersistsAcrossReattach(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTestSchema(t, dir)
	config := types.Config{
		Backend:    types.BackendSQLite,
		DataDir:    dir,
		SchemaFile: schemaPath,
	}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	objects, _ := b.GetTable(types.ObjectsTable)
	id, err := objects.Set("", &types.Object{Type: "Target1", Name: "kept"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	b.Detach()

	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()
	objects2, _ := b2.GetTable(types.ObjectsTable)
	raw, err := objects2.Get(id)
	if err != nil {
		t.Fatalf("Get after re-attach failed: %v", err)
	}
	if raw.(*types.Object).Name != "kept" {
		t.Error("object did not survive re-attach")
	}
}
