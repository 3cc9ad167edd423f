// Object entity: a stored instance of a concrete schema type.
// Implements: prd001-store-core R3 (entities); prd002-sqlite-backend R4 (hydration).
package types

import "time"

// Object is a row in the object graph. Its Type names a concrete schema
// type; the type's resolved links govern how the object participates in
// cascading deletes.
type Object struct {
	// ObjectID is a UUID v7, generated on creation.
	ObjectID string

	// Type is the concrete schema type name. Abstract types cannot be
	// instantiated.
	Type string

	// Name is a human-readable label. Optional, used by filters.
	Name string

	// CreatedAt is the timestamp of creation.
	CreatedAt time.Time
}
