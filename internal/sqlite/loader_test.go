// Unit tests for JSONL persistence: the files are the source of truth, the
// database is rebuilt from them on every attach.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/loom/pkg/types"
)

func TestLoadJSONLOnAttach(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		`{"snippet_id":"s1","story_id":"demo","parent_id":null,"child_id":"s2","kind":"user","content":"root","created_at":"2026-03-01T12:00:00.000000000Z"}`,
		`{"snippet_id":"s2","story_id":"demo","parent_id":"s1","child_id":null,"kind":"ai","content":"next","created_at":"2026-03-01T12:00:01.000000000Z"}`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.jsonl"),
		[]byte(strings.Join(lines, "\n")+"\n"), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	table, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)

	entity, err := table.Get("s1")
	require.NoError(t, err)
	root := entity.(*types.Snippet)
	assert.Equal(t, "", root.ParentID)
	assert.Equal(t, "s2", root.ChildID)
	assert.Equal(t, "root", root.Content)

	entity, err = table.Get("s2")
	require.NoError(t, err)
	child := entity.(*types.Snippet)
	assert.Equal(t, "s1", child.ParentID)
	assert.Equal(t, types.KindAI, child.Kind)
}

func TestLoadSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	lines := []string{
		`{"snippet_id":"good","story_id":"demo","parent_id":null,"child_id":null,"kind":"user","content":"ok","created_at":"2026-03-01T12:00:00.000000000Z"}`,
		`{not json at all`,
		``,
		// Duplicate primary key violates the schema; the row is skipped.
		`{"snippet_id":"good","story_id":"demo","parent_id":null,"child_id":null,"kind":"user","content":"dupe","created_at":"2026-03-01T12:00:02.000000000Z"}`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "snippets.jsonl"),
		[]byte(strings.Join(lines, "\n")+"\n"), 0o644))

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	table, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)
	entities, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "ok", entities[0].(*types.Snippet).Content)
}

func TestPersistedRecordsUseNullForAbsentRefs(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	table, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)
	_, err = table.Set("", &types.Snippet{StoryID: "demo", Content: "root"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "snippets.jsonl"))
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &rec))
	val, ok := rec["parent_id"]
	assert.True(t, ok, "parent_id key should be present")
	assert.Nil(t, val, "absent parent reference should encode as null")
	assert.Nil(t, rec["child_id"])
}

func TestWriteJSONLAtomicRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")

	first := []json.RawMessage{json.RawMessage(`{"a":1}`)}
	require.NoError(t, writeJSONL(path, first))

	second := []json.RawMessage{json.RawMessage(`{"a":2}`), json.RawMessage(`{"a":3}`)}
	require.NoError(t, writeJSONL(path, second))

	records, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"a":2}`, string(records[0]))

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBranchesSurviveReattach(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))

	snips, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)
	headID, err := snips.Set("", &types.Snippet{StoryID: "demo", Content: "tip"})
	require.NoError(t, err)

	brs, err := b.GetTable(types.TableBranches)
	require.NoError(t, err)
	brID, err := brs.Set("", &types.Branch{StoryID: "demo", Name: "draft", HeadID: headID})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b2.Detach()

	brs2, err := b2.GetTable(types.TableBranches)
	require.NoError(t, err)
	entity, err := brs2.Get(brID)
	require.NoError(t, err)
	got := entity.(*types.Branch)
	assert.Equal(t, "draft", got.Name)
	assert.Equal(t, headID, got.HeadID)
}
