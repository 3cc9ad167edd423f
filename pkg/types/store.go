package types

import "errors"

// Store defines the interface for backend-agnostic object graph access.
// Callers attach to a backend, access tables by name, and detach when done.
// Implements prd001-store-core R2.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist and compiles the schema
	// document when one is configured. Returns ErrAlreadyAttached if called
	// while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors (prd001-store-core R7.1).
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrTableNotFound   = errors.New("table not found")
	ErrSchemaNotLoaded = errors.New("no schema loaded")
)

// Standard table names for Store.GetTable (prd001-store-core R2.5).
const (
	ObjectsTable = "objects"
	LinksTable   = "links"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	ObjectsTable,
	LinksTable,
}
