// Linear traversal over the snippet graph. Reads are defensive: data may be
// mutated concurrently by another writer, so every loop carries a visited-set
// cycle guard and treats a missing node as the end of the path rather than
// an error.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inkforge/loom/pkg/types"
)

// CanonicalRoot returns the story's root snippet. When legacy data holds
// more than one parentless snippet, the most recently created wins.
// Returns nil without error for an empty story.
func (g *Store) CanonicalRoot(storyID string) (*types.Snippet, error) {
	entities, err := g.snippets.Fetch(map[string]any{
		"story_id": storyID,
		"roots":    true,
		"limit":    1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching root: %w", err)
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0].(*types.Snippet), nil
}

// MainPath returns the ordered sequence from the canonical root, following
// active-child edges until a snippet has no active child, the next node is
// missing, or a cycle is detected. An empty story yields an empty sequence.
func (g *Store) MainPath(storyID string) ([]*types.Snippet, error) {
	root, err := g.CanonicalRoot(storyID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return []*types.Snippet{}, nil
	}

	path := []*types.Snippet{root}
	visited := map[string]bool{root.SnippetID: true}
	cur := root
	for cur.HasActiveChild() {
		if visited[cur.ChildID] {
			break
		}
		entity, err := g.snippets.Get(cur.ChildID)
		if errors.Is(err, types.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking main path: %w", err)
		}
		next := entity.(*types.Snippet)
		if next.StoryID != storyID {
			break
		}
		visited[next.SnippetID] = true
		path = append(path, next)
		cur = next
	}
	return path, nil
}

// PathFromHead returns the ordered sequence from the root to headID by
// walking parent edges backward and reversing. A missing or cross-story head
// yields an empty sequence, not an error, so callers can treat unknown heads
// as "no content yet".
func (g *Store) PathFromHead(storyID, headID string) ([]*types.Snippet, error) {
	if headID == "" {
		return []*types.Snippet{}, nil
	}
	entity, err := g.snippets.Get(headID)
	if errors.Is(err, types.ErrNotFound) {
		return []*types.Snippet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching head: %w", err)
	}
	head := entity.(*types.Snippet)
	if head.StoryID != storyID {
		return []*types.Snippet{}, nil
	}

	reversed := []*types.Snippet{head}
	visited := map[string]bool{head.SnippetID: true}
	cur := head
	for !cur.IsRoot() {
		if visited[cur.ParentID] {
			break
		}
		entity, err := g.snippets.Get(cur.ParentID)
		if errors.Is(err, types.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("walking parent chain: %w", err)
		}
		parent := entity.(*types.Snippet)
		visited[parent.SnippetID] = true
		reversed = append(reversed, parent)
		cur = parent
	}

	path := make([]*types.Snippet, len(reversed))
	for i, s := range reversed {
		path[len(reversed)-1-i] = s
	}
	return path, nil
}

// BuildText joins the non-empty snippet contents of a path with a blank-line
// separator. Pure function.
func BuildText(path []*types.Snippet) string {
	parts := make([]string, 0, len(path))
	for _, s := range path {
		if s.Content != "" {
			parts = append(parts, s.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
