// Package sqlite implements the SQLite backend for the Loom story engine.
// SQLite serves as the query engine; JSONL files in the data directory are
// the source of truth, reloaded on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createSnippets = `CREATE TABLE snippets (
    snippet_id TEXT PRIMARY KEY,
    story_id TEXT NOT NULL,
    parent_id TEXT,
    child_id TEXT,
    kind TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createBranches = `CREATE TABLE branches (
    branch_id TEXT PRIMARY KEY,
    story_id TEXT NOT NULL,
    name TEXT NOT NULL,
    head_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxSnippetsStory  = `CREATE INDEX idx_snippets_story ON snippets(story_id);`
	idxSnippetsParent = `CREATE INDEX idx_snippets_parent ON snippets(story_id, parent_id);`
	idxSnippetsChild  = `CREATE INDEX idx_snippets_child ON snippets(story_id, child_id);`
	idxBranchesStory  = `CREATE INDEX idx_branches_story ON branches(story_id);`
	idxBranchesKey    = `CREATE UNIQUE INDEX idx_branches_key ON branches(story_id, name);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createSnippets,
	createBranches,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSnippetsStory,
	idxSnippetsParent,
	idxSnippetsChild,
	idxBranchesStory,
	idxBranchesKey,
}
