// Package sqlite implements the SQLite storage backend for Ripple.
// Implements: prd002-sqlite-backend (R3 SQLite schema, R11 Store interface);
//             docs/ARCHITECTURE § SQLite Backend.
package sqlite

// Schema DDL for the object graph tables (prd002-sqlite-backend R3.2).
// The SQLite file is the source of truth and survives re-attach, so all
// statements are idempotent.
const (
	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    object_id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    name TEXT,
    created_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    link_name TEXT NOT NULL,
    source_id TEXT NOT NULL,
    target_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createObjectsTypeIndex = `CREATE INDEX IF NOT EXISTS idx_objects_type
    ON objects(type);`

	// The planner's hot path: inbound references by (link, target).
	createLinksTargetIndex = `CREATE INDEX IF NOT EXISTS idx_links_target
    ON links(link_name, target_id);`

	createLinksSourceIndex = `CREATE INDEX IF NOT EXISTS idx_links_source
    ON links(source_id);`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createObjects,
	createLinks,
	createObjectsTypeIndex,
	createLinksTargetIndex,
	createLinksSourceIndex,
}
