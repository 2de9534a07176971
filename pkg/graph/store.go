// Package graph implements the branching snippet graph engine. Snippets form
// a forest of out-trees per story addressed by stable IDs; the engine owns
// structural mutation (append, regenerate, splice, delete) and linear
// traversal, working against the injected row store.
package graph

import (
	"errors"
	"fmt"

	"github.com/inkforge/loom/pkg/types"
)

// Store executes structural operations on the snippet graph. It holds table
// accessors from an attached row store; it is safe for use by concurrent
// request handlers to the extent the underlying store is.
type Store struct {
	snippets types.Table
	branches types.Table
}

// New returns a Store bound to the snippet and branch tables of the given
// row store. The store must already be attached.
func New(store types.Store) (*Store, error) {
	snippets, err := store.GetTable(types.TableSnippets)
	if err != nil {
		return nil, fmt.Errorf("snippets table: %w", err)
	}
	branches, err := store.GetTable(types.TableBranches)
	if err != nil {
		return nil, fmt.Errorf("branches table: %w", err)
	}
	return &Store{snippets: snippets, branches: branches}, nil
}

// CreateSnippet inserts a new snippet as a child of parentID, or as a new
// root when parentID is empty. Activation policy: ActivateAuto makes the new
// snippet the parent's active child only if the parent has none yet,
// ActivateAlways unconditionally, ActivateNever adds an inactive alternate.
// Returns ErrParentNotFound rather than creating an orphan when parentID
// does not resolve.
func (g *Store) CreateSnippet(storyID, content, kind, parentID string, activate types.Activation) (*types.Snippet, error) {
	if kind == "" {
		kind = types.KindUser
	}

	if parentID == "" {
		root := &types.Snippet{StoryID: storyID, Kind: kind, Content: content}
		if _, err := g.snippets.Set("", root); err != nil {
			return nil, fmt.Errorf("creating root snippet: %w", err)
		}
		return root, nil
	}

	parent, err := g.getStorySnippet(storyID, parentID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrParentNotFound
		}
		return nil, err
	}

	s := &types.Snippet{StoryID: storyID, ParentID: parent.SnippetID, Kind: kind, Content: content}
	if _, err := g.snippets.Set("", s); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	makeActive := activate == types.ActivateAlways ||
		(activate == types.ActivateAuto && !parent.HasActiveChild())
	if makeActive {
		parent.ChildID = s.SnippetID
		if _, err := g.snippets.Set(parent.SnippetID, parent); err != nil {
			return nil, fmt.Errorf("activating snippet: %w", err)
		}
	}
	return s, nil
}

// RegenerateSnippet creates a sibling alternate of the target snippet: a new
// snippet under the target's own parent. The target itself is not mutated.
// Returns ErrTargetNotFound if targetID does not resolve.
func (g *Store) RegenerateSnippet(storyID, targetID, content, kind string, activate types.Activation) (*types.Snippet, error) {
	target, err := g.getStorySnippet(storyID, targetID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrTargetNotFound
		}
		return nil, err
	}
	return g.CreateSnippet(storyID, content, kind, target.ParentID, activate)
}

// ChooseActiveChild repoints the parent's active-child edge at childID.
// Returns ErrNotAChild if childID is not a structural child of parentID;
// the graph is left unchanged on failure.
func (g *Store) ChooseActiveChild(storyID, parentID, childID string) error {
	parent, err := g.getStorySnippet(storyID, parentID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.ErrParentNotFound
		}
		return err
	}
	child, err := g.getStorySnippet(storyID, childID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return types.ErrTargetNotFound
		}
		return err
	}
	if child.ParentID != parent.SnippetID {
		return types.ErrNotAChild
	}

	parent.ChildID = child.SnippetID
	if _, err := g.snippets.Set(parent.SnippetID, parent); err != nil {
		return fmt.Errorf("repointing active child: %w", err)
	}
	return nil
}

// InsertAbove splices a new snippet between the target and its current
// parent: the new snippet takes the target's old parent and the target as
// active child, and the target is re-parented under it. When setActive is
// true and the old parent's active child was the target, the active path is
// preserved through the splice point.
func (g *Store) InsertAbove(storyID, targetID, content, kind string, setActive bool) (*types.Snippet, error) {
	target, err := g.getStorySnippet(storyID, targetID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrTargetNotFound
		}
		return nil, err
	}
	if kind == "" {
		kind = types.KindUser
	}

	oldParentID := target.ParentID
	n := &types.Snippet{
		StoryID:  storyID,
		ParentID: oldParentID,
		ChildID:  target.SnippetID,
		Kind:     kind,
		Content:  content,
	}
	if _, err := g.snippets.Set("", n); err != nil {
		return nil, fmt.Errorf("creating spliced snippet: %w", err)
	}

	target.ParentID = n.SnippetID
	if _, err := g.snippets.Set(target.SnippetID, target); err != nil {
		return nil, fmt.Errorf("re-parenting target: %w", err)
	}

	if oldParentID != "" && setActive {
		oldParent, err := g.getStorySnippet(storyID, oldParentID)
		// A dangling old parent is tolerated; the splice itself succeeded.
		if err == nil && oldParent.ChildID == target.SnippetID {
			oldParent.ChildID = n.SnippetID
			if _, err := g.snippets.Set(oldParent.SnippetID, oldParent); err != nil {
				return nil, fmt.Errorf("repointing old parent: %w", err)
			}
		}
	}
	return n, nil
}

// InsertBelow inserts a new snippet as a child of parentID. If the parent
// already had an active child, that child is re-parented under the new
// snippet, splicing it into the chain. When setActive is true the new
// snippet becomes the parent's active child.
func (g *Store) InsertBelow(storyID, parentID, content, kind string, setActive bool) (*types.Snippet, error) {
	parent, err := g.getStorySnippet(storyID, parentID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrParentNotFound
		}
		return nil, err
	}
	if kind == "" {
		kind = types.KindUser
	}

	oldChildID := parent.ChildID
	n := &types.Snippet{
		StoryID:  storyID,
		ParentID: parent.SnippetID,
		ChildID:  oldChildID,
		Kind:     kind,
		Content:  content,
	}
	if _, err := g.snippets.Set("", n); err != nil {
		return nil, fmt.Errorf("creating spliced snippet: %w", err)
	}

	if oldChildID != "" {
		oldChild, err := g.getStorySnippet(storyID, oldChildID)
		if err == nil {
			oldChild.ParentID = n.SnippetID
			if _, err := g.snippets.Set(oldChild.SnippetID, oldChild); err != nil {
				return nil, fmt.Errorf("re-parenting former child: %w", err)
			}
		}
	}

	if setActive {
		parent.ChildID = n.SnippetID
		if _, err := g.snippets.Set(parent.SnippetID, parent); err != nil {
			return nil, fmt.Errorf("activating spliced snippet: %w", err)
		}
	}
	return n, nil
}

// UpdateSnippet edits content and kind in place; structure is untouched.
// Nil fields are left unchanged; with both nil the current state is
// returned unmodified.
func (g *Store) UpdateSnippet(id string, content, kind *string) (*types.Snippet, error) {
	entity, err := g.snippets.Get(id)
	if err != nil {
		return nil, err
	}
	s := entity.(*types.Snippet)

	if content == nil && kind == nil {
		return s, nil
	}
	if content != nil {
		s.Content = *content
	}
	if kind != nil {
		s.Kind = *kind
	}
	if _, err := g.snippets.Set(s.SnippetID, s); err != nil {
		return nil, fmt.Errorf("updating snippet: %w", err)
	}
	return s, nil
}

// DeleteSnippet excises a snippet, closing the gap: children are re-parented
// to the deleted node's own parent, the parent's active-child pointer is
// repointed (preferring the deleted node's active child, then any remaining
// child) or cleared, and branches headed at the node are repointed to the
// replacement or removed when none exists. All replacement choices are
// computed from the pre-mutation state.
// Returns ErrCannotDeleteRoot for the story root; returns false without
// error when the snippet does not exist or belongs to a different story.
func (g *Store) DeleteSnippet(storyID, id string) (bool, error) {
	entity, err := g.snippets.Get(id)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s := entity.(*types.Snippet)
	if s.StoryID != storyID {
		return false, nil
	}
	if s.IsRoot() {
		return false, types.ErrCannotDeleteRoot
	}

	children, err := g.childrenOf(storyID, s.SnippetID)
	if err != nil {
		return false, err
	}

	// Replacement head: the structurally-active child preserves continuity;
	// fall back to any remaining child. A childless node has no replacement.
	replacementID := ""
	if len(children) > 0 {
		replacementID = children[0].SnippetID
		for _, c := range children {
			if c.SnippetID == s.ChildID {
				replacementID = c.SnippetID
				break
			}
		}
	}

	for _, c := range children {
		c.ParentID = s.ParentID
		if _, err := g.snippets.Set(c.SnippetID, c); err != nil {
			return false, fmt.Errorf("re-parenting child %s: %w", c.SnippetID, err)
		}
	}

	parent, err := g.getStorySnippet(storyID, s.ParentID)
	if err == nil && parent.ChildID == s.SnippetID {
		parent.ChildID = replacementID
		if _, err := g.snippets.Set(parent.SnippetID, parent); err != nil {
			return false, fmt.Errorf("repointing parent: %w", err)
		}
	}

	headed, err := g.branches.Fetch(map[string]any{"story_id": storyID, "head_id": s.SnippetID})
	if err != nil {
		return false, fmt.Errorf("finding branches at head: %w", err)
	}
	for _, e := range headed {
		br := e.(*types.Branch)
		if replacementID != "" {
			br.HeadID = replacementID
			if _, err := g.branches.Set(br.BranchID, br); err != nil {
				return false, fmt.Errorf("repointing branch %s: %w", br.Name, err)
			}
		} else {
			if err := g.branches.Delete(br.BranchID); err != nil && !errors.Is(err, types.ErrNotFound) {
				return false, fmt.Errorf("removing branch %s: %w", br.Name, err)
			}
		}
	}

	if err := g.snippets.Delete(s.SnippetID); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("deleting snippet: %w", err)
	}
	return true, nil
}

// getStorySnippet fetches a snippet and checks story ownership. Returns
// ErrNotFound (wrapped) when the row is missing and ErrStoryMismatch when it
// belongs to another story.
func (g *Store) getStorySnippet(storyID, id string) (*types.Snippet, error) {
	if id == "" {
		return nil, types.ErrNotFound
	}
	entity, err := g.snippets.Get(id)
	if err != nil {
		return nil, err
	}
	s := entity.(*types.Snippet)
	if s.StoryID != storyID {
		return nil, types.ErrStoryMismatch
	}
	return s, nil
}

// childrenOf returns all structural children of a snippet, newest first.
func (g *Store) childrenOf(storyID, parentID string) ([]*types.Snippet, error) {
	entities, err := g.snippets.Fetch(map[string]any{"story_id": storyID, "parent_id": parentID})
	if err != nil {
		return nil, fmt.Errorf("fetching children of %s: %w", parentID, err)
	}
	children := make([]*types.Snippet, 0, len(entities))
	for _, e := range entities {
		children = append(children, e.(*types.Snippet))
	}
	return children, nil
}
