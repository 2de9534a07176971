// Whole-story operations: destructive reset and duplication.
package graph

import (
	"errors"
	"fmt"

	"github.com/inkforge/loom/pkg/types"
)

// DeleteStory removes every snippet and branch belonging to the story.
func (g *Store) DeleteStory(storyID string) error {
	entities, err := g.snippets.Fetch(map[string]any{"story_id": storyID})
	if err != nil {
		return fmt.Errorf("fetching story snippets: %w", err)
	}
	for _, e := range entities {
		s := e.(*types.Snippet)
		if err := g.snippets.Delete(s.SnippetID); err != nil && !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("deleting snippet %s: %w", s.SnippetID, err)
		}
	}

	brs, err := g.branches.Fetch(map[string]any{"story_id": storyID})
	if err != nil {
		return fmt.Errorf("fetching story branches: %w", err)
	}
	for _, e := range brs {
		br := e.(*types.Branch)
		if err := g.branches.Delete(br.BranchID); err != nil && !errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("deleting branch %s: %w", br.Name, err)
		}
	}
	return nil
}

// TruncateStory removes all story content and creates a fresh empty root so
// the story remains addressable. Returns the new root.
func (g *Store) TruncateStory(storyID string) (*types.Snippet, error) {
	if err := g.DeleteStory(storyID); err != nil {
		return nil, err
	}
	root, err := g.CreateSnippet(storyID, "", types.KindUser, "", types.ActivateAuto)
	if err != nil {
		return nil, fmt.Errorf("creating fresh root: %w", err)
	}
	return root, nil
}

// DuplicateStoryAll deep-copies the entire snippet graph of the source story
// into the target story namespace with freshly generated IDs, preserving
// parent/child/active-child structure. Branches whose heads fall inside the
// copied set are duplicated with remapped heads. Returns the source-to-target
// ID remapping so collaborating subsystems can duplicate metadata keyed by
// snippet ID.
func (g *Store) DuplicateStoryAll(sourceID, targetID string) (map[string]string, error) {
	entities, err := g.snippets.Fetch(map[string]any{"story_id": sourceID})
	if err != nil {
		return nil, fmt.Errorf("fetching source snippets: %w", err)
	}
	sources := make([]*types.Snippet, 0, len(entities))
	for _, e := range entities {
		sources = append(sources, e.(*types.Snippet))
	}

	idMap, err := g.copySnippets(sources, targetID)
	if err != nil {
		return nil, err
	}

	brs, err := g.branches.Fetch(map[string]any{"story_id": sourceID})
	if err != nil {
		return nil, fmt.Errorf("fetching source branches: %w", err)
	}
	for _, e := range brs {
		br := e.(*types.Branch)
		newHead, ok := idMap[br.HeadID]
		if !ok {
			// Head outside the copied set (corrupted branch); skip.
			continue
		}
		dup := &types.Branch{StoryID: targetID, Name: br.Name, HeadID: newHead}
		if _, err := g.branches.Set("", dup); err != nil {
			return nil, fmt.Errorf("duplicating branch %s: %w", br.Name, err)
		}
	}
	return idMap, nil
}

// DuplicateStoryMain copies only the active main line of the source story
// into the target story namespace. The copied snippets form a single linear
// chain of active children. Returns the source-to-target ID remapping.
func (g *Store) DuplicateStoryMain(sourceID, targetID string) (map[string]string, error) {
	path, err := g.MainPath(sourceID)
	if err != nil {
		return nil, err
	}
	return g.copySnippets(path, targetID)
}

// copySnippets clones the given snippets into the target story in two
// passes: first creating rows under fresh IDs, then rewiring parent and
// active-child references through the ID map. References leaving the copied
// set are dropped.
func (g *Store) copySnippets(sources []*types.Snippet, targetID string) (map[string]string, error) {
	idMap := make(map[string]string, len(sources))
	copies := make(map[string]*types.Snippet, len(sources))

	for _, s := range sources {
		n := &types.Snippet{
			StoryID:   targetID,
			Kind:      s.Kind,
			Content:   s.Content,
			CreatedAt: s.CreatedAt,
		}
		id, err := g.snippets.Set("", n)
		if err != nil {
			return nil, fmt.Errorf("copying snippet %s: %w", s.SnippetID, err)
		}
		idMap[s.SnippetID] = id
		copies[s.SnippetID] = n
	}

	for _, s := range sources {
		n := copies[s.SnippetID]
		changed := false
		if mapped, ok := idMap[s.ParentID]; ok {
			n.ParentID = mapped
			changed = true
		}
		if mapped, ok := idMap[s.ChildID]; ok {
			n.ChildID = mapped
			changed = true
		}
		if !changed {
			continue
		}
		if _, err := g.snippets.Set(n.SnippetID, n); err != nil {
			return nil, fmt.Errorf("rewiring copied snippet %s: %w", n.SnippetID, err)
		}
	}
	return idMap, nil
}
