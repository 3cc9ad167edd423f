// This file implements the links table accessor for the SQLite backend.
// Implements: prd002-sqlite-backend R12-R15 (table routing, interface, hydration);
//             prd003-schema-model R6 (link validation against the compiled schema).
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/ripple/pkg/types"
)

var _ types.Table = (*linksTable)(nil)

type linksTable struct {
	backend *Backend
}

// hydrateLink scans one links row into a Link.
func hydrateLink(row rowScanner) (*types.Link, error) {
	var l types.Link
	var createdAt string
	if err := row.Scan(&l.LinkID, &l.Name, &l.SourceID, &l.TargetID, &createdAt); err != nil {
		return nil, err
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	l.CreatedAt = ts
	return &l, nil
}

// Get retrieves a link row by ID.
func (lt *linksTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}

	row := lt.backend.db.QueryRow(
		"SELECT link_id, link_name, source_id, target_id, created_at FROM links WHERE link_id = ?",
		id,
	)
	l, err := hydrateLink(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting link %s: %w", id, err)
	}
	return l, nil
}

// Set creates a link row after validating it against the compiled schema:
// the link must be declared on the source's type, the target's type must be
// subsumed by the link's target, single links hold at most one row, and
// (link, source, target) is unique. Link rows are immutable; retargeting
// goes through Tx.SetLinkTargets, so a non-empty id is rejected.
func (lt *linksTable) Set(id string, data any) (string, error) {
	l, ok := data.(*types.Link)
	if !ok {
		return "", types.ErrInvalidData
	}
	if id != "" {
		return "", types.ErrInvalidData
	}
	if l.Name == "" || l.SourceID == "" || l.TargetID == "" {
		return "", types.ErrInvalidData
	}

	tx, err := lt.backend.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	linkID, err := tx.AddLinkTarget(l.SourceID, l.Name, l.TargetID)
	if err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}

	l.LinkID = linkID
	return linkID, nil
}

// Delete removes a single link row. Clearing a reference this way is how a
// pending deferred restrict check gets satisfied before commit.
func (lt *linksTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}

	res, err := lt.backend.db.Exec("DELETE FROM links WHERE link_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting link %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return nil
}

// Fetch returns link rows matching the filter. Supported keys: "link_name",
// "source_id", "target_id", all string-valued.
func (lt *linksTable) Fetch(filter map[string]any) ([]any, error) {
	query := "SELECT link_id, link_name, source_id, target_id, created_at FROM links"
	var conds []string
	var args []any

	for key, val := range filter {
		str, ok := val.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		switch key {
		case "link_name", "source_id", "target_id":
			conds = append(conds, key+" = ?")
			args = append(args, str)
		default:
			return nil, types.ErrInvalidFilter
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, link_id"

	rows, err := lt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching links: %w", err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		l, err := hydrateLink(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
