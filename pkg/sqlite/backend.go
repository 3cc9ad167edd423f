// Package sqlite provides the public API for the SQLite Ripple backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
//
// Implements: prd001-store-core R2, R4 (backend factory);
//
//	docs/ARCHITECTURE § Public API.
package sqlite

import (
	"github.com/mesh-intelligence/ripple/internal/sqlite"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend:    types.BackendSQLite,
//	    DataDir:    ".ripple-db",
//	    SchemaFile: "schema.yaml",
//	})
//	defer backend.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
