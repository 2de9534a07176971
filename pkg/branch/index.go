// Package branch implements the named-pointer index over the snippet graph.
// Branches are movable (story, name) pointers at snippet heads; the index
// never mutates the graph, it only references it. Corrupted heads are healed
// lazily on read rather than failing the read.
package branch

import (
	"errors"
	"fmt"

	"github.com/inkforge/loom/pkg/types"
)

// Index owns branch pointers and their integrity checks against the snippet
// graph.
type Index struct {
	snippets types.Table
	branches types.Table
}

// New returns an Index bound to the snippet and branch tables of the given
// row store. The store must already be attached.
func New(store types.Store) (*Index, error) {
	snippets, err := store.GetTable(types.TableSnippets)
	if err != nil {
		return nil, fmt.Errorf("snippets table: %w", err)
	}
	branches, err := store.GetTable(types.TableBranches)
	if err != nil {
		return nil, fmt.Errorf("branches table: %w", err)
	}
	return &Index{snippets: snippets, branches: branches}, nil
}

// Upsert creates or moves the named branch to headID. The head must exist in
// the story (ErrHeadNotFound otherwise); structural soundness of the chain
// behind it is checked separately by ValidateHead. Idempotent: repointing is
// a pure overwrite.
func (ix *Index) Upsert(storyID, name, headID string) (*types.Branch, error) {
	if name == "" {
		return nil, types.ErrInvalidName
	}
	entity, err := ix.snippets.Get(headID)
	if errors.Is(err, types.ErrNotFound) {
		return nil, types.ErrHeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking head: %w", err)
	}
	if entity.(*types.Snippet).StoryID != storyID {
		return nil, types.ErrHeadNotFound
	}

	br := &types.Branch{StoryID: storyID, Name: name, HeadID: headID}
	if _, err := ix.branches.Set("", br); err != nil {
		return nil, fmt.Errorf("upserting branch: %w", err)
	}
	return br, nil
}

// List returns all branches of a story, most recently created first.
func (ix *Index) List(storyID string) ([]*types.Branch, error) {
	entities, err := ix.branches.Fetch(map[string]any{"story_id": storyID})
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	brs := make([]*types.Branch, 0, len(entities))
	for _, e := range entities {
		brs = append(brs, e.(*types.Branch))
	}
	return brs, nil
}

// Get returns the named branch, or ErrBranchNotFound.
func (ix *Index) Get(storyID, name string) (*types.Branch, error) {
	entities, err := ix.branches.Fetch(map[string]any{"story_id": storyID, "name": name})
	if err != nil {
		return nil, fmt.Errorf("fetching branch: %w", err)
	}
	if len(entities) == 0 {
		return nil, types.ErrBranchNotFound
	}
	return entities[0].(*types.Branch), nil
}

// Delete removes the named branch. Absence is not an error.
func (ix *Index) Delete(storyID, name string) error {
	br, err := ix.Get(storyID, name)
	if errors.Is(err, types.ErrBranchNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := ix.branches.Delete(br.BranchID); err != nil && !errors.Is(err, types.ErrNotFound) {
		return fmt.Errorf("deleting branch: %w", err)
	}
	return nil
}
