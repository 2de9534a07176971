// Unit tests for backend attach/detach lifecycle and data directory setup.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkforge/loom/pkg/types"
)

// setupBackend creates an attached Backend over a temp data directory.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestAttachCreatesDataFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b.Detach()

	for _, name := range []string{"snippets.jsonl", "branches.jsonl", dbFileName} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestAttachValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{"empty backend", types.Config{DataDir: "x"}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "etcd", DataDir: "x"}, types.ErrBackendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend()
			err := b.Attach(tt.config)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoubleAttach(t *testing.T) {
	b := setupBackend(t)
	err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	assert.ErrorIs(t, err, types.ErrAlreadyAttached)
}

func TestDetachIdempotent(t *testing.T) {
	b := setupBackend(t)
	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach())
}

func TestOperationsAfterDetach(t *testing.T) {
	b := setupBackend(t)
	table, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	_, err = b.GetTable(types.TableSnippets)
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	_, err = table.Get("some-id")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = table.Set("", &types.Snippet{StoryID: "s"})
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = table.Fetch(nil)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestGetTableUnknownName(t *testing.T) {
	b := setupBackend(t)
	_, err := b.GetTable("chapters")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestReattachReloadsState(t *testing.T) {
	dir := t.TempDir()

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))

	table, err := b.GetTable(types.TableSnippets)
	require.NoError(t, err)
	s := &types.Snippet{StoryID: "odyssey", Content: "Sing, Muse"}
	id, err := table.Set("", s)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// The db file is a disposable cache; removing it must not lose data.
	require.NoError(t, os.Remove(filepath.Join(dir, dbFileName)))

	b2 := NewBackend()
	require.NoError(t, b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dir}))
	defer b2.Detach()

	table2, err := b2.GetTable(types.TableSnippets)
	require.NoError(t, err)
	entity, err := table2.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Snippet)
	assert.Equal(t, "odyssey", got.StoryID)
	assert.Equal(t, "Sing, Muse", got.Content)
}
