// JSONL export and import of the object graph, one record per line.
// Implements: prd002-sqlite-backend R5 (portable dump format);
//
//	prd006-ripple-cli R7 (dump/load commands).
package sqlite

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mesh-intelligence/ripple/internal/schema"
	"github.com/mesh-intelligence/ripple/pkg/types"
)

// jsonlRecord is one line of a dump: either an object or a link row.
type jsonlRecord struct {
	Kind      string `json:"kind"` // "object" or "link"
	ID        string `json:"id"`
	Type      string `json:"type,omitempty"`      // object only
	Name      string `json:"name,omitempty"`      // object label or link name
	SourceID  string `json:"source_id,omitempty"` // link only
	TargetID  string `json:"target_id,omitempty"` // link only
	CreatedAt string `json:"created_at"`
}

const (
	recordKindObject = "object"
	recordKindLink   = "link"
)

// Export writes every object and link row as JSONL: objects first so an
// import can validate link endpoints against already-present objects.
func (b *Backend) Export(w io.Writer) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrStoreDetached
	}

	enc := json.NewEncoder(w)

	rows, err := b.db.Query(
		"SELECT object_id, type, name, created_at FROM objects ORDER BY created_at, object_id")
	if err != nil {
		return fmt.Errorf("exporting objects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		rec := jsonlRecord{Kind: recordKindObject}
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.Name, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning object: %w", err)
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	linkRows, err := b.db.Query(
		"SELECT link_id, link_name, source_id, target_id, created_at FROM links ORDER BY created_at, link_id")
	if err != nil {
		return fmt.Errorf("exporting links: %w", err)
	}
	defer linkRows.Close()
	for linkRows.Next() {
		rec := jsonlRecord{Kind: recordKindLink}
		if err := linkRows.Scan(&rec.ID, &rec.Name, &rec.SourceID, &rec.TargetID, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning link: %w", err)
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return linkRows.Err()
}

// Import reads a JSONL dump and inserts every record, replacing rows with
// matching ids. Runs in one transaction, and the restored graph is checked
// against the compiled schema before commit: a malformed line or an invalid
// record imports nothing.
func (b *Backend) Import(r io.Reader) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	compiled, err := b.requireSchema()
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec jsonlRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return fmt.Errorf("import line %d: %w", line, err)
		}
		if rec.CreatedAt == "" {
			rec.CreatedAt = time.Now().UTC().Format(time.RFC3339)
		}

		switch rec.Kind {
		case recordKindObject:
			if rec.ID == "" || rec.Type == "" {
				return fmt.Errorf("import line %d: %w", line, types.ErrInvalidData)
			}
			if _, err := tx.Exec(
				"INSERT OR REPLACE INTO objects (object_id, type, name, created_at) VALUES (?, ?, ?, ?)",
				rec.ID, rec.Type, rec.Name, rec.CreatedAt,
			); err != nil {
				return fmt.Errorf("import line %d: %w", line, err)
			}
		case recordKindLink:
			if rec.ID == "" || rec.Name == "" || rec.SourceID == "" || rec.TargetID == "" {
				return fmt.Errorf("import line %d: %w", line, types.ErrInvalidData)
			}
			if _, err := tx.Exec(
				"INSERT OR REPLACE INTO links (link_id, link_name, source_id, target_id, created_at) VALUES (?, ?, ?, ?, ?)",
				rec.ID, rec.Name, rec.SourceID, rec.TargetID, rec.CreatedAt,
			); err != nil {
				return fmt.Errorf("import line %d: %w", line, err)
			}
		default:
			return fmt.Errorf("import line %d: unknown record kind %q", line, rec.Kind)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if err := validateImport(tx, compiled); err != nil {
		return err
	}

	return tx.Commit()
}

// validateImport checks the restored graph against the compiled schema
// before the import transaction commits: every object must be of a known
// concrete type, every link must be declared on its source's type with a
// subsumed target, single links hold at most one row, and no (source, link,
// target) triple repeats. Runs over the whole store since INSERT OR REPLACE
// may have merged the dump with pre-existing rows.
func validateImport(tx *sql.Tx, s *schema.Schema) error {
	objTypes := make(map[string]string)

	rows, err := tx.Query("SELECT object_id, type FROM objects")
	if err != nil {
		return fmt.Errorf("validating imported objects: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, typeName string
		if err := rows.Scan(&id, &typeName); err != nil {
			return fmt.Errorf("scanning imported object: %w", err)
		}
		if _, ok := s.Type(typeName); !ok {
			return fmt.Errorf("imported object %s has type %q: %w",
				id, typeName, types.ErrTypeNotFound)
		}
		if s.IsAbstract(typeName) {
			return fmt.Errorf("imported object %s has abstract type %q: %w",
				id, typeName, types.ErrAbstractType)
		}
		objTypes[id] = typeName
	}
	if err := rows.Err(); err != nil {
		return err
	}

	linkRows, err := tx.Query("SELECT link_id, link_name, source_id, target_id FROM links")
	if err != nil {
		return fmt.Errorf("validating imported links: %w", err)
	}
	defer linkRows.Close()
	type sourceLink struct{ sourceID, name string }
	singles := make(map[sourceLink]bool)
	seen := make(map[sourceLink]map[string]bool)
	for linkRows.Next() {
		var id, name, sourceID, targetID string
		if err := linkRows.Scan(&id, &name, &sourceID, &targetID); err != nil {
			return fmt.Errorf("scanning imported link: %w", err)
		}
		sourceType, ok := objTypes[sourceID]
		if !ok {
			return fmt.Errorf("imported link %s references source %s: %w",
				id, sourceID, types.ErrNotFound)
		}
		targetType, ok := objTypes[targetID]
		if !ok {
			return fmt.Errorf("imported link %s references target %s: %w",
				id, targetID, types.ErrNotFound)
		}
		el, ok := s.EffectiveLink(sourceType, name)
		if !ok {
			return fmt.Errorf("imported link %s names %q undeclared on type %q: %w",
				id, name, sourceType, types.ErrLinkNotFound)
		}
		if !s.IsSubtype(targetType, el.Target) {
			return fmt.Errorf("imported link %s targets %q where %q is declared: %w",
				id, targetType, el.Target, types.ErrTargetMismatch)
		}
		key := sourceLink{sourceID, name}
		if seen[key][targetID] {
			return fmt.Errorf("imported link %s repeats %s -[%s]-> %s: %w",
				id, sourceID, name, targetID, types.ErrDuplicateLink)
		}
		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		seen[key][targetID] = true
		if el.Cardinality == types.CardinalitySingle {
			if singles[key] {
				return fmt.Errorf("imported link %s exceeds single cardinality of %q on %s: %w",
					id, name, sourceID, types.ErrCardinality)
			}
			singles[key] = true
		}
	}
	return linkRows.Err()
}
