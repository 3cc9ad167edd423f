package types

import "errors"

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
// Implements prd001-store-core R3.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID. For objects this runs
	// the full cascading delete in its own transaction.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter map[string]any) ([]any, error)
}

// Table operation errors (prd001-store-core R7.2).
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Schema validation errors surfaced by table writes (prd003-schema-model R6).
var (
	ErrTypeNotFound   = errors.New("schema type not found")
	ErrAbstractType   = errors.New("abstract type cannot be instantiated")
	ErrLinkNotFound   = errors.New("link not declared on source type")
	ErrTargetMismatch = errors.New("target object type not allowed by link")
	ErrCardinality    = errors.New("single link already has a target")
	ErrDuplicateLink  = errors.New("link between source and target already exists")
)
