// JSONL record structures for backend persistence. These mirror the on-disk
// line format; optional references are encoded as null rather than "".
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/inkforge/loom/pkg/types"
)

// snippetJSON represents a snippet in snippets.jsonl.
type snippetJSON struct {
	SnippetID string  `json:"snippet_id"`
	StoryID   string  `json:"story_id"`
	ParentID  *string `json:"parent_id"`
	ChildID   *string `json:"child_id"`
	Kind      string  `json:"kind"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"created_at"`
}

// branchJSON represents a branch in branches.jsonl.
type branchJSON struct {
	BranchID  string `json:"branch_id"`
	StoryID   string `json:"story_id"`
	Name      string `json:"name"`
	HeadID    string `json:"head_id"`
	CreatedAt string `json:"created_at"`
}

// dehydrateSnippet converts a snippet entity to its JSONL record form.
func dehydrateSnippet(s *types.Snippet) (json.RawMessage, error) {
	rec := snippetJSON{
		SnippetID: s.SnippetID,
		StoryID:   s.StoryID,
		ParentID:  optionalRef(s.ParentID),
		ChildID:   optionalRef(s.ChildID),
		Kind:      s.Kind,
		Content:   s.Content,
		CreatedAt: s.CreatedAt.Format(timeFormat),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling snippet %s: %w", s.SnippetID, err)
	}
	return b, nil
}

// dehydrateBranch converts a branch entity to its JSONL record form.
func dehydrateBranch(br *types.Branch) (json.RawMessage, error) {
	rec := branchJSON{
		BranchID:  br.BranchID,
		StoryID:   br.StoryID,
		Name:      br.Name,
		HeadID:    br.HeadID,
		CreatedAt: br.CreatedAt.Format(timeFormat),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling branch %s: %w", br.BranchID, err)
	}
	return b, nil
}

// optionalRef maps the empty string to a JSON null.
func optionalRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// parseTime parses a stored timestamp, tolerating both second and nanosecond
// precision encodings.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeFormat, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
