// Unit tests for the branches table accessor: compound-key upsert and
// filtered fetch.
package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/loom/pkg/types"
)

func branchesOf(t *testing.T, b *Backend) types.Table {
	t.Helper()
	table, err := b.GetTable(types.TableBranches)
	require.NoError(t, err)
	return table
}

func TestBranchSetDefaults(t *testing.T) {
	b := setupBackend(t)
	table := branchesOf(t, b)

	br := &types.Branch{StoryID: "demo", Name: "draft", HeadID: "head-1"}
	id, err := table.Set("", br)
	require.NoError(t, err)

	assert.NotEmpty(t, id)
	assert.Equal(t, id, br.BranchID)
	assert.False(t, br.CreatedAt.IsZero())

	entity, err := table.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Branch)
	assert.Equal(t, "demo", got.StoryID)
	assert.Equal(t, "draft", got.Name)
	assert.Equal(t, "head-1", got.HeadID)
}

func TestBranchSetRejectsBadData(t *testing.T) {
	b := setupBackend(t)
	table := branchesOf(t, b)

	_, err := table.Set("", &types.Snippet{StoryID: "demo"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = table.Set("", &types.Branch{Name: "draft", HeadID: "h"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = table.Set("", &types.Branch{StoryID: "demo", Name: "draft"})
	assert.ErrorIs(t, err, types.ErrInvalidData)

	_, err = table.Set("", &types.Branch{StoryID: "demo", HeadID: "h"})
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestBranchUpsertOnNaturalKey(t *testing.T) {
	b := setupBackend(t)
	table := branchesOf(t, b)

	first := &types.Branch{StoryID: "demo", Name: "draft", HeadID: "head-1"}
	firstID, err := table.Set("", first)
	require.NoError(t, err)
	createdAt := first.CreatedAt

	// Repointing the same (story, name) keeps the original row identity.
	second := &types.Branch{StoryID: "demo", Name: "draft", HeadID: "head-2"}
	secondID, err := table.Set("", second)
	require.NoError(t, err)
	assert.Equal(t, firstID, secondID)
	assert.Equal(t, firstID, second.BranchID)

	entity, err := table.Get(firstID)
	require.NoError(t, err)
	got := entity.(*types.Branch)
	assert.Equal(t, "head-2", got.HeadID)
	assert.True(t, got.CreatedAt.Equal(createdAt))

	// The same name in another story is an independent branch.
	other := &types.Branch{StoryID: "elsewhere", Name: "draft", HeadID: "head-9"}
	otherID, err := table.Set("", other)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, otherID)
}

func TestBranchDelete(t *testing.T) {
	b := setupBackend(t)
	table := branchesOf(t, b)

	id, err := table.Set("", &types.Branch{StoryID: "demo", Name: "draft", HeadID: "h"})
	require.NoError(t, err)

	require.NoError(t, table.Delete(id))
	_, err = table.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.ErrorIs(t, table.Delete(id), types.ErrNotFound)
}

func TestBranchFetchFilters(t *testing.T) {
	b := setupBackend(t)
	table := branchesOf(t, b)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := &types.Branch{StoryID: "demo", Name: "draft", HeadID: "h1", CreatedAt: base}
	olderID, err := table.Set("", older)
	require.NoError(t, err)

	newer := &types.Branch{StoryID: "demo", Name: "alt", HeadID: "h2", CreatedAt: base.Add(time.Minute)}
	newerID, err := table.Set("", newer)
	require.NoError(t, err)

	_, err = table.Set("", &types.Branch{StoryID: "other", Name: "draft", HeadID: "h1", CreatedAt: base})
	require.NoError(t, err)

	entities, err := table.Fetch(map[string]any{"story_id": "demo"})
	require.NoError(t, err)
	require.Len(t, entities, 2)
	assert.Equal(t, newerID, entities[0].(*types.Branch).BranchID)
	assert.Equal(t, olderID, entities[1].(*types.Branch).BranchID)

	entities, err = table.Fetch(map[string]any{"story_id": "demo", "name": "draft"})
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, olderID, entities[0].(*types.Branch).BranchID)

	entities, err = table.Fetch(map[string]any{"head_id": "h1"})
	require.NoError(t, err)
	assert.Len(t, entities, 2)

	entities, err = table.Fetch(map[string]any{"story_id": "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, entities)
}
