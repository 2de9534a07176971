// Head validation and repair. Corruption (cycles, dangling references) is
// detected only on read and reported as a structured result, never as an
// error: a read must not hard-fail because a pointer rotted. Availability
// over strictness is deliberate here; this is creative content, not ledger
// data.
package branch

import (
	"errors"
	"fmt"

	"github.com/inkforge/loom/pkg/types"
)

// Diagnostic reasons reported by ValidateHead.
const (
	ReasonHeadNotFound = "head not found"
	ReasonCycle        = "cycle detected"
	ReasonDangling     = "dangling parent reference"
)

// HeadCheck is the structured result of a head validation.
type HeadCheck struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateHead walks parent edges from headID toward the root with a
// visited-set cycle guard and a missing-node guard. Corruption is returned
// in the HeadCheck; the error is non-nil only for store failures.
func (ix *Index) ValidateHead(storyID, headID string) (HeadCheck, error) {
	entity, err := ix.snippets.Get(headID)
	if errors.Is(err, types.ErrNotFound) {
		return HeadCheck{Reason: ReasonHeadNotFound}, nil
	}
	if err != nil {
		return HeadCheck{}, fmt.Errorf("fetching head: %w", err)
	}
	cur := entity.(*types.Snippet)
	if cur.StoryID != storyID {
		return HeadCheck{Reason: ReasonHeadNotFound}, nil
	}

	visited := map[string]bool{cur.SnippetID: true}
	for !cur.IsRoot() {
		if visited[cur.ParentID] {
			return HeadCheck{Reason: ReasonCycle}, nil
		}
		entity, err := ix.snippets.Get(cur.ParentID)
		if errors.Is(err, types.ErrNotFound) {
			return HeadCheck{Reason: ReasonDangling}, nil
		}
		if err != nil {
			return HeadCheck{}, fmt.Errorf("walking parent chain: %w", err)
		}
		parent := entity.(*types.Snippet)
		if parent.StoryID != storyID {
			return HeadCheck{Reason: ReasonDangling}, nil
		}
		visited[parent.SnippetID] = true
		cur = parent
	}
	return HeadCheck{Valid: true}, nil
}

// RepairHead recovers a corrupted branch: starting from the current head and
// walking backward, the first ancestor forming a valid acyclic chain to the
// root becomes the new head and the branch is repointed. Returns the new
// head ID with ok=true on success (including the no-op case of an already
// valid head), or ok=false when no ancestor is recoverable. Callers fall
// back to the structurally derived main path in that case.
func (ix *Index) RepairHead(storyID, name string) (string, bool, error) {
	br, err := ix.Get(storyID, name)
	if err != nil {
		return "", false, err
	}

	candidate := br.HeadID
	visited := make(map[string]bool)
	for candidate != "" && !visited[candidate] {
		visited[candidate] = true

		check, err := ix.ValidateHead(storyID, candidate)
		if err != nil {
			return "", false, err
		}
		if check.Valid {
			if candidate != br.HeadID {
				br.HeadID = candidate
				if _, err := ix.branches.Set(br.BranchID, br); err != nil {
					return "", false, fmt.Errorf("repointing repaired branch: %w", err)
				}
			}
			return candidate, true, nil
		}

		entity, err := ix.snippets.Get(candidate)
		if errors.Is(err, types.ErrNotFound) {
			// Head row itself is gone; no ancestry left to follow.
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("walking repair chain: %w", err)
		}
		candidate = entity.(*types.Snippet).ParentID
	}
	return "", false, nil
}
