// Unit tests for whole-story operations: delete, truncate, duplicate.
package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/loom/pkg/types"
)

func TestDeleteStory(t *testing.T) {
	g, store := setupStore(t)
	buildChain(t, g, "demo", "A", "B", "C")
	keep := buildChain(t, g, "other", "kept")

	brTable, err := store.GetTable(types.TableBranches)
	require.NoError(t, err)
	chain := mainPathIDs(t, g, "demo")
	_, err = brTable.Set("", &types.Branch{StoryID: "demo", Name: "draft", HeadID: chain[2]})
	require.NoError(t, err)

	require.NoError(t, g.DeleteStory("demo"))

	path, err := g.MainPath("demo")
	require.NoError(t, err)
	assert.Empty(t, path)

	brs, err := brTable.Fetch(map[string]any{"story_id": "demo"})
	require.NoError(t, err)
	assert.Empty(t, brs)

	// Other stories are untouched.
	assert.Equal(t, []string{keep[0].SnippetID}, mainPathIDs(t, g, "other"))
}

func TestDeleteStoryEmpty(t *testing.T) {
	g, _ := setupStore(t)
	require.NoError(t, g.DeleteStory("nowhere"))
}

func TestTruncateStory(t *testing.T) {
	g, _ := setupStore(t)
	old := buildChain(t, g, "demo", "A", "B")

	root, err := g.TruncateStory("demo")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
	assert.Equal(t, "", root.Content)

	// The story remains addressable through a single fresh root.
	assert.Equal(t, []string{root.SnippetID}, mainPathIDs(t, g, "demo"))
	for _, s := range old {
		assert.NotEqual(t, s.SnippetID, root.SnippetID)
	}
}

func TestDuplicateStoryAll(t *testing.T) {
	g, store := setupStore(t)
	chain := buildChain(t, g, "demo", "A", "B", "C")
	alt, err := g.CreateSnippet("demo", "alt-B", "", chain[0].SnippetID, types.ActivateNever)
	require.NoError(t, err)

	brTable, err := store.GetTable(types.TableBranches)
	require.NoError(t, err)
	_, err = brTable.Set("", &types.Branch{StoryID: "demo", Name: "draft", HeadID: chain[2].SnippetID})
	require.NoError(t, err)

	idMap, err := g.DuplicateStoryAll("demo", "copy")
	require.NoError(t, err)
	assert.Len(t, idMap, 4)

	// Every source ID maps to a fresh target ID.
	for src, dst := range idMap {
		assert.NotEqual(t, src, dst)
	}
	_, ok := idMap[alt.SnippetID]
	assert.True(t, ok, "inactive alternates are copied too")

	// The copy reads identically.
	srcPath, err := g.MainPath("demo")
	require.NoError(t, err)
	dstPath, err := g.MainPath("copy")
	require.NoError(t, err)
	assert.Equal(t, BuildText(srcPath), BuildText(dstPath))

	// The branch follows with a remapped head.
	brs, err := brTable.Fetch(map[string]any{"story_id": "copy", "name": "draft"})
	require.NoError(t, err)
	require.Len(t, brs, 1)
	assert.Equal(t, idMap[chain[2].SnippetID], brs[0].(*types.Branch).HeadID)

	// The source is untouched.
	assert.Equal(t, []string{chain[0].SnippetID, chain[1].SnippetID, chain[2].SnippetID},
		mainPathIDs(t, g, "demo"))
}

func TestDuplicateStoryMain(t *testing.T) {
	g, store := setupStore(t)
	chain := buildChain(t, g, "demo", "A", "B", "C")
	_, err := g.CreateSnippet("demo", "alt-B", "", chain[0].SnippetID, types.ActivateNever)
	require.NoError(t, err)

	idMap, err := g.DuplicateStoryMain("demo", "copy")
	require.NoError(t, err)
	// Only the active line is copied; the alternate stays behind.
	assert.Len(t, idMap, 3)

	srcPath, err := g.MainPath("demo")
	require.NoError(t, err)
	dstPath, err := g.MainPath("copy")
	require.NoError(t, err)
	assert.Equal(t, BuildText(srcPath), BuildText(dstPath))

	table, err := store.GetTable(types.TableSnippets)
	require.NoError(t, err)
	copied, err := table.Fetch(map[string]any{"story_id": "copy"})
	require.NoError(t, err)
	assert.Len(t, copied, 3)
}

func TestDuplicateEmptyStory(t *testing.T) {
	g, _ := setupStore(t)

	idMap, err := g.DuplicateStoryAll("nowhere", "copy")
	require.NoError(t, err)
	assert.Empty(t, idMap)

	idMap, err = g.DuplicateStoryMain("nowhere", "copy")
	require.NoError(t, err)
	assert.Empty(t, idMap)
}
