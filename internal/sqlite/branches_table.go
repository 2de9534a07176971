// Table accessor for the branches entity type. Rows are addressed by a
// synthetic branch_id, but (story_id, name) is the natural key: Set upserts
// on it so repointing a branch is a pure overwrite.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/inkforge/loom/pkg/types"
)

// Compile-time interface check.
var _ types.Table = (*branchesTable)(nil)

type branchesTable struct {
	backend *Backend
}

const branchColumns = "branch_id, story_id, name, head_id, created_at"

// Get retrieves a branch by its synthetic ID.
func (bt *branchesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	bt.backend.mu.RLock()
	defer bt.backend.mu.RUnlock()

	if !bt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := bt.backend.db.QueryRow(
		"SELECT "+branchColumns+" FROM branches WHERE branch_id = ?", id)
	br, err := scanBranchRow(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting branch %s: %w", id, err)
	}
	return br, nil
}

// Set persists a branch. Creation generates a UUID v7; an existing row with
// the same (story_id, name) keeps its branch_id and created_at, and only
// head_id is overwritten. Returns the surviving branch ID.
func (bt *branchesTable) Set(id string, data any) (string, error) {
	br, ok := data.(*types.Branch)
	if !ok {
		return "", types.ErrInvalidData
	}
	if br.StoryID == "" || br.HeadID == "" {
		return "", types.ErrInvalidData
	}
	if br.Name == "" {
		return "", types.ErrInvalidName
	}

	bt.backend.mu.Lock()
	defer bt.backend.mu.Unlock()

	if !bt.backend.attached {
		return "", types.ErrStoreDetached
	}

	if id == "" && br.BranchID == "" {
		br.BranchID = newUUID()
		if br.CreatedAt.IsZero() {
			br.CreatedAt = time.Now().UTC()
		}
	} else if id != "" {
		br.BranchID = id
	}

	_, err := bt.backend.db.Exec(`
		INSERT INTO branches (branch_id, story_id, name, head_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(story_id, name) DO UPDATE SET
			head_id = excluded.head_id`,
		br.BranchID, br.StoryID, br.Name, br.HeadID,
		br.CreatedAt.Format(timeFormat))
	if err != nil {
		return "", fmt.Errorf("upserting branch: %w", err)
	}

	// The conflict path keeps the original row; report its ID back.
	var survivingID string
	err = bt.backend.db.QueryRow(
		"SELECT branch_id FROM branches WHERE story_id = ? AND name = ?",
		br.StoryID, br.Name).Scan(&survivingID)
	if err != nil {
		return "", fmt.Errorf("resolving branch ID: %w", err)
	}
	br.BranchID = survivingID

	if err := bt.persistJSONL(); err != nil {
		return "", err
	}
	return survivingID, nil
}

// Delete removes a branch row by its synthetic ID.
func (bt *branchesTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	bt.backend.mu.Lock()
	defer bt.backend.mu.Unlock()

	if !bt.backend.attached {
		return types.ErrStoreDetached
	}

	res, err := bt.backend.db.Exec("DELETE FROM branches WHERE branch_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting branch %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return bt.persistJSONL()
}

// Fetch returns branches matching the filter, newest first. Recognized keys:
// story_id, name, head_id (string equality), limit (int).
func (bt *branchesTable) Fetch(filter map[string]any) ([]any, error) {
	bt.backend.mu.RLock()
	defer bt.backend.mu.RUnlock()

	if !bt.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT " + branchColumns + " FROM branches"
	var conditions []string
	var args []any

	for _, key := range []string{"story_id", "name", "head_id"} {
		val, ok := filter[key]
		if !ok {
			continue
		}
		str, ok := val.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, key+" = ?")
		args = append(args, str)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if limit, ok := filter["limit"]; ok {
		l, ok := toInt(limit)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if l > 0 {
			query += fmt.Sprintf(" LIMIT %d", l)
		}
	}

	rows, err := bt.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching branches: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		br, err := scanBranchRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, br)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

func scanBranchRow(row *sql.Row) (*types.Branch, error) {
	var br types.Branch
	var createdAt string
	err := row.Scan(&br.BranchID, &br.StoryID, &br.Name, &br.HeadID, &createdAt)
	if err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing branch created_at: %w", err)
	}
	br.CreatedAt = t
	return &br, nil
}

func scanBranchRows(rows *sql.Rows) (*types.Branch, error) {
	var br types.Branch
	var createdAt string
	if err := rows.Scan(&br.BranchID, &br.StoryID, &br.Name, &br.HeadID, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning branch: %w", err)
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing branch created_at: %w", err)
	}
	br.CreatedAt = t
	return &br, nil
}

// persistJSONL writes the full branches table to branches.jsonl atomically.
// The caller must hold the backend write lock.
func (bt *branchesTable) persistJSONL() error {
	rows, err := bt.backend.db.Query(
		"SELECT " + branchColumns + " FROM branches ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("reading branches for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		br, err := scanBranchRows(rows)
		if err != nil {
			return err
		}
		rec, err := dehydrateBranch(br)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(bt.backend.jsonlPath("branches.jsonl"), records)
}
