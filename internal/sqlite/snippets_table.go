// Table accessor for the snippets entity type. Each operation hydrates and
// dehydrates between SQLite rows and *types.Snippet structs, and persists
// changes to snippets.jsonl atomically.
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
var _ types.Table = (*snippetsTable)(nil)

type snippetsTable struct {
	backend *Backend
}

const snippetColumns = "snippet_id, story_id, parent_id, child_id, kind, content, created_at"

// Get retrieves a snippet by ID.
// Returns ErrInvalidID if id is empty, ErrNotFound if no row matches.
func (st *snippetsTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	st.backend.mu.RLock()
	defer st.backend.mu.RUnlock()

	if !st.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := st.backend.db.QueryRow(
		"SELECT "+snippetColumns+" FROM snippets WHERE snippet_id = ?", id)
	s, err := scanSnippetRow(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting snippet %s: %w", id, err)
	}
	return s, nil
}

// Set persists a snippet. When both id and the entity's SnippetID are empty
// a UUID v7 is generated and creation defaults applied. Set is an upsert:
// story_id and created_at are written once, the mutable fields (parent_id,
// child_id, kind, content) overwrite the existing row.
func (st *snippetsTable) Set(id string, data any) (string, error) {
	s, ok := data.(*types.Snippet)
	if !ok {
		return "", types.ErrInvalidData
	}
	if s.StoryID == "" {
		return "", types.ErrInvalidData
	}

	st.backend.mu.Lock()
	defer st.backend.mu.Unlock()

	if !st.backend.attached {
		return "", types.ErrStoreDetached
	}

	if id == "" && s.SnippetID == "" {
		s.SnippetID = newUUID()
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
		if s.Kind == "" {
			s.Kind = types.KindUser
		}
	} else if id != "" {
		s.SnippetID = id
	}

	_, err := st.backend.db.Exec(`
		INSERT INTO snippets (snippet_id, story_id, parent_id, child_id, kind, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(snippet_id) DO UPDATE SET
			parent_id = excluded.parent_id,
			child_id = excluded.child_id,
			kind = excluded.kind,
			content = excluded.content`,
		s.SnippetID, s.StoryID,
		nullable(s.ParentID), nullable(s.ChildID),
		s.Kind, s.Content,
		s.CreatedAt.Format(timeFormat))
	if err != nil {
		return "", fmt.Errorf("upserting snippet: %w", err)
	}

	if err := st.persistJSONL(); err != nil {
		return "", err
	}
	return s.SnippetID, nil
}

// Delete removes a single snippet row. Structural cascades (re-parenting
// children, repointing branches) are the graph engine's responsibility.
func (st *snippetsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	st.backend.mu.Lock()
	defer st.backend.mu.Unlock()

	if !st.backend.attached {
		return types.ErrStoreDetached
	}

	res, err := st.backend.db.Exec("DELETE FROM snippets WHERE snippet_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting snippet %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return types.ErrNotFound
	}
	return st.persistJSONL()
}

// Fetch returns snippets matching the filter, newest first. Recognized keys:
// story_id, parent_id, child_id, kind (string equality), roots (bool, selects
// rows with no parent), limit (int).
func (st *snippetsTable) Fetch(filter map[string]any) ([]any, error) {
	st.backend.mu.RLock()
	defer st.backend.mu.RUnlock()

	if !st.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT " + snippetColumns + " FROM snippets"
	var conditions []string
	var args []any

	for _, key := range []string{"story_id", "parent_id", "child_id", "kind"} {
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
	if roots, ok := filter["roots"]; ok {
		b, ok := roots.(bool)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if b {
			conditions = append(conditions, "parent_id IS NULL")
		}
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

	rows, err := st.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching snippets: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		s, err := scanSnippetRows(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, s)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

// scanSnippetRow hydrates a single-row query result.
func scanSnippetRow(row *sql.Row) (*types.Snippet, error) {
	var s types.Snippet
	var parentID, childID sql.NullString
	var createdAt string
	err := row.Scan(&s.SnippetID, &s.StoryID, &parentID, &childID, &s.Kind, &s.Content, &createdAt)
	if err != nil {
		return nil, err
	}
	return hydrateSnippetFields(&s, parentID, childID, createdAt)
}

// scanSnippetRows hydrates the current row of a multi-row query result.
func scanSnippetRows(rows *sql.Rows) (*types.Snippet, error) {
	var s types.Snippet
	var parentID, childID sql.NullString
	var createdAt string
	if err := rows.Scan(&s.SnippetID, &s.StoryID, &parentID, &childID, &s.Kind, &s.Content, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning snippet: %w", err)
	}
	return hydrateSnippetFields(&s, parentID, childID, createdAt)
}

func hydrateSnippetFields(s *types.Snippet, parentID, childID sql.NullString, createdAt string) (*types.Snippet, error) {
	if parentID.Valid {
		s.ParentID = parentID.String
	}
	if childID.Valid {
		s.ChildID = childID.String
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing snippet created_at: %w", err)
	}
	s.CreatedAt = t
	return s, nil
}

// persistJSONL writes the full snippets table to snippets.jsonl atomically.
// The caller must hold the backend write lock.
func (st *snippetsTable) persistJSONL() error {
	rows, err := st.backend.db.Query(
		"SELECT " + snippetColumns + " FROM snippets ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("reading snippets for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		s, err := scanSnippetRows(rows)
		if err != nil {
			return err
		}
		rec, err := dehydrateSnippet(s)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(st.backend.jsonlPath("snippets.jsonl"), records)
}

// nullable maps the empty string to a SQL NULL.
func nullable(id string) sql.NullString {
	if id == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: id, Valid: true}
}

// toInt converts the numeric types a filter value may arrive as.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
