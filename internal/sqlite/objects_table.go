// This file implements the objects table accessor for the SQLite backend.
// Implements: prd002-sqlite-backend R12-R14 (table routing, interface, hydration);
//             prd004-delete-policies R4 (Delete routes through the cascade engine).
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

var _ types.Table = (*objectsTable)(nil)

type objectsTable struct {
	backend *Backend
}

// rowScanner abstracts sql.Row and sql.Rows for hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// hydrateObject scans one objects row into an Object.
func hydrateObject(row rowScanner) (*types.Object, error) {
	var obj types.Object
	var createdAt string
	if err := row.Scan(&obj.ObjectID, &obj.Type, &obj.Name, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	obj.CreatedAt = ts
	return &obj, nil
}

// Get retrieves an object by ID (prd002-sqlite-backend R14).
func (ot *objectsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := ot.backend.db.QueryRow(
		"SELECT object_id, type, name, created_at FROM objects WHERE object_id = ?",
		id,
	)
	obj, err := hydrateObject(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting object %s: %w", id, err)
	}
	return obj, nil
}

// Set persists an object. If id is empty, generates a UUID v7 and creates
// the object after validating its type against the compiled schema. If id
// is provided, updates the existing object's name; the type is fixed at
// creation.
func (ot *objectsTable) Set(id string, data any) (string, error) {
	obj, ok := data.(*types.Object)
	if !ok {
		return "", types.ErrInvalidData
	}

	b := ot.backend
	b.mu.RLock()
	compiled, err := b.requireSchema()
	b.mu.RUnlock()
	if err != nil {
		return "", err
	}

	if id == "" {
		def, ok := compiled.Type(obj.Type)
		if !ok {
			return "", types.ErrTypeNotFound
		}
		if def.Abstract {
			return "", types.ErrAbstractType
		}

		obj.ObjectID = generateUUID()
		obj.CreatedAt = time.Now().UTC()
		_, err := b.db.Exec(
			"INSERT INTO objects (object_id, type, name, created_at) VALUES (?, ?, ?, ?)",
			obj.ObjectID, obj.Type, obj.Name, obj.CreatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return "", fmt.Errorf("inserting object: %w", err)
		}
		return obj.ObjectID, nil
	}

	res, err := b.db.Exec(
		"UPDATE objects SET name = ? WHERE object_id = ?", obj.Name, id,
	)
	if err != nil {
		return "", fmt.Errorf("updating object %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", types.ErrNotFound
	}
	return id, nil
}

// Delete removes an object by running the full cascading delete in its own
// transaction: set-empty clears, delete-source cascades, and deferred
// restrict checks evaluated at the commit boundary.
func (ot *objectsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	tx, err := ot.backend.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ObjectType(id); err != nil {
		return err
	}
	if _, err := tx.DeleteCascade([]string{id}); err != nil {
		return err
	}
	return tx.Commit()
}

// Fetch returns objects matching the filter. Supported keys: "type" and
// "name", both string-valued. A "type" filter matches the named type and
// all its concrete subtypes, mirroring selection semantics.
func (ot *objectsTable) Fetch(filter map[string]any) ([]any, error) {
	b := ot.backend

	query := "SELECT object_id, type, name, created_at FROM objects"
	var conds []string
	var args []any

	for key, val := range filter {
		str, ok := val.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		switch key {
		case "type":
			b.mu.RLock()
			compiled := b.schema
			b.mu.RUnlock()
			if compiled != nil {
				concrete := compiled.ConcreteDescendants(str)
				if len(concrete) == 0 {
					return nil, nil
				}
				conds = append(conds, "type IN ("+placeholders(len(concrete))+")")
				args = append(args, toAnySlice(concrete)...)
			} else {
				conds = append(conds, "type = ?")
				args = append(args, str)
			}
		case "name":
			conds = append(conds, "name = ?")
			args = append(args, str)
		default:
			return nil, types.ErrInvalidFilter
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, object_id"

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching objects: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		obj, err := hydrateObject(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating object: %w", err)
		}
		out = append(out, obj)
	}
	return out, rows.Err()
}
