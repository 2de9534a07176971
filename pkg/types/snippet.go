package types

import "time"

// Snippet kinds distinguish author-submitted content from generated content.
// The set is extensible; unknown kinds are stored as-is.
const (
	KindUser = "user"
	KindAI   = "ai"
)

// Snippet represents a single fragment of story text. Snippets form a forest
// of out-trees per story: ParentID points backward at the snippet directly
// before this one, and ChildID marks the one child currently designated as
// the active continuation. Other children may exist as inactive alternates.
type Snippet struct {
	// SnippetID is a UUID v7, generated on creation. Immutable.
	SnippetID string `json:"snippet_id"`

	// StoryID names the story this snippet belongs to. Immutable.
	StoryID string `json:"story_id"`

	// ParentID references the snippet directly before this one.
	// Empty only for a story's root.
	ParentID string `json:"parent_id"`

	// ChildID references the active continuation from this snippet.
	// Empty when no child is active.
	ChildID string `json:"child_id"`

	// Kind tags the origin of the content (user, ai).
	Kind string `json:"kind"`

	// Content is the text payload. May be empty.
	Content string `json:"content"`

	// CreatedAt is the timestamp of creation. Never mutated; used as a
	// tie-breaker when selecting the canonical root.
	CreatedAt time.Time `json:"created_at"`
}

// IsRoot reports whether the snippet has no parent.
func (s *Snippet) IsRoot() bool {
	return s.ParentID == ""
}

// HasActiveChild reports whether an active continuation is designated.
func (s *Snippet) HasActiveChild() bool {
	return s.ChildID != ""
}

// Activation controls whether a newly created snippet becomes its parent's
// active child.
type Activation int

const (
	// ActivateAuto makes the new snippet active only if the parent has no
	// active child yet.
	ActivateAuto Activation = iota

	// ActivateAlways makes the new snippet the parent's active child.
	ActivateAlways

	// ActivateNever adds the new snippet as an inactive alternate.
	ActivateNever
)
