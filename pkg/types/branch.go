package types

import "time"

// Branch is a named, movable pointer into a story's snippet graph. The
// compound (StoryID, Name) identifies the branch; HeadID designates the tip
// of its linear history. A branch whose head no longer resolves back to the
// story's root is corrupted and is healed lazily on read.
type Branch struct {
	// BranchID is a UUID v7, generated on creation. Rows are addressed by
	// this ID at the table layer; (StoryID, Name) is the natural key.
	BranchID string `json:"branch_id"`

	// StoryID names the story this branch points into.
	StoryID string `json:"story_id"`

	// Name is the branch name, unique within a story.
	Name string `json:"name"`

	// HeadID is the snippet this branch designates as its tip.
	HeadID string `json:"head_id"`

	// CreatedAt is the timestamp of creation. Listing orders by it,
	// most recent first.
	CreatedAt time.Time `json:"created_at"`
}
