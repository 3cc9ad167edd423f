// SQLite backend lifecycle: attach, schema compilation, table accessors.
// Implements: prd002-sqlite-backend R4, R5, R11;
//
//	prd007-configuration-directories R3, R4;
//	prd001-store-core R2, R4, R5;
//	docs/ARCHITECTURE § SQLite Backend.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ripple/internal/engine"
	"github.com/mesh-intelligence/ripple/internal/schema"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// Database and schema document file names inside DataDir.
const (
	dbFileName     = "ripple.db"
	schemaFileName = "schema.yaml"
)

// Backend implements the Store interface using SQLite as both the query
// engine and the source of truth. The compiled schema and the delete engine
// are rebuilt on every Attach and on every schema load.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	schema   *schema.Schema
	engine   *engine.Engine
	tables   map[string]types.Table
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, initializes the SQLite schema,
// compiles the schema document when one is present, and creates table
// accessors. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("initializing table schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir

	// Compile the schema document: the configured path wins, otherwise the
	// copy a previous `schema load` left in DataDir.
	schemaPath := config.SchemaFile
	if schemaPath == "" {
		candidate := filepath.Join(dataDir, schemaFileName)
		if _, err := os.Stat(candidate); err == nil {
			schemaPath = candidate
		}
	}
	if schemaPath != "" {
		compiled, err := schema.Load(schemaPath)
		if err != nil {
			db.Close()
			b.db = nil
			return fmt.Errorf("compiling schema: %w", err)
		}
		b.schema = compiled
		b.engine = engine.New(compiled)
	}

	b.attached = true

	b.tables[types.ObjectsTable] = &objectsTable{backend: b}
	b.tables[types.LinksTable] = &linksTable{backend: b}

	return nil
}

// Detach releases all resources held by the backend.
// Closes the SQLite connection. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.schema = nil
	b.engine = nil
	b.tables = make(map[string]types.Table)

	return nil
}

// Schema returns the compiled schema, or nil when none is loaded.
func (b *Backend) Schema() *schema.Schema {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.schema
}

// LoadSchema compiles the schema document at path, installs it on the
// backend, and persists a copy into DataDir so the next Attach picks it up.
func (b *Backend) LoadSchema(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schema %s: %w", path, err)
	}
	compiled, err := schema.Parse(data)
	if err != nil {
		return err
	}

	dest := filepath.Join(b.config.DataDir, schemaFileName)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("persisting schema copy: %w", err)
	}

	b.schema = compiled
	b.engine = engine.New(compiled)
	return nil
}

// requireSchema returns the compiled schema or ErrSchemaNotLoaded.
// The caller must hold b.mu (read or write lock).
func (b *Backend) requireSchema() (*schema.Schema, error) {
	if b.schema == nil {
		return nil, types.ErrSchemaNotLoaded
	}
	return b.schema, nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
