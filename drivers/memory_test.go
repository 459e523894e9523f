package drivers

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RootExists(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	st, err := m.Stat(context.Background(), "/")
	require.NoError(t, err)
	assert.False(t, st.IsFile)
}

func TestMemory_WriteReadStat(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.WriteFile(ctx, "/f.txt", []byte("hello")))

	data, err := m.ReadFile(ctx, "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	st, err := m.Stat(ctx, "/f.txt")
	require.NoError(t, err)
	assert.True(t, st.IsFile)
	assert.EqualValues(t, 5, st.Size)
}

func TestMemory_WriteRequiresParent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	err := m.WriteFile(context.Background(), "/nodir/f.txt", []byte("x"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemory_ReadFileOnDirFails(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Mkdir(ctx, "/d", 0o755))

	_, err := m.ReadFile(ctx, "/d")
	assert.Error(t, err)
}

func TestMemory_MkdirSemantics(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Mkdir(ctx, "/d", 0o755))
	assert.ErrorIs(t, m.Mkdir(ctx, "/d", 0o755), fs.ErrExist)
	assert.ErrorIs(t, m.Mkdir(ctx, "/x/y", 0o755), fs.ErrNotExist, "parent must exist")
}

func TestMemory_ReadDirSortedDirectChildren(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Mkdir(ctx, "/d", 0o755))
	require.NoError(t, m.WriteFile(ctx, "/d/b.txt", []byte("b")))
	require.NoError(t, m.WriteFile(ctx, "/d/a.txt", []byte("a")))
	require.NoError(t, m.Mkdir(ctx, "/d/sub", 0o755))
	require.NoError(t, m.WriteFile(ctx, "/d/sub/nested.txt", []byte("n")))

	names, err := m.ReadDir(ctx, "/d")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "b.txt", "sub"}, names, "direct children only, sorted")

	root, err := m.ReadDir(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []string{"d"}, root)
}

func TestMemory_ReadDirMissing(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	_, err := m.ReadDir(context.Background(), "/missing")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemory_RemoveSemantics(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Mkdir(ctx, "/d", 0o755))
	require.NoError(t, m.WriteFile(ctx, "/d/f.txt", []byte("x")))

	assert.Error(t, m.Remove(ctx, "/d"), "non-empty directory must not be removable")
	require.NoError(t, m.Remove(ctx, "/d/f.txt"))
	require.NoError(t, m.Remove(ctx, "/d"))
	assert.ErrorIs(t, m.Remove(ctx, "/d"), fs.ErrNotExist)
}

func TestMemory_RenameFile(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.WriteFile(ctx, "/old.txt", []byte("x")))
	require.NoError(t, m.Rename(ctx, "/old.txt", "/new.txt"))

	_, err := m.Stat(ctx, "/old.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
	data, err := m.ReadFile(ctx, "/new.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestMemory_RenameMovesSubtree(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Mkdir(ctx, "/src", 0o755))
	require.NoError(t, m.WriteFile(ctx, "/src/f.txt", []byte("x")))
	require.NoError(t, m.Mkdir(ctx, "/src/sub", 0o755))
	require.NoError(t, m.WriteFile(ctx, "/src/sub/g.txt", []byte("y")))

	require.NoError(t, m.Rename(ctx, "/src", "/dst"))

	_, err := m.Stat(ctx, "/src/f.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	data, err := m.ReadFile(ctx, "/dst/sub/g.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("y"), data)
}

func TestMemory_RenameMissing(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	assert.ErrorIs(t, m.Rename(context.Background(), "/a", "/b"), fs.ErrNotExist)
}

func TestMemory_TrashRemoves(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.WriteFile(ctx, "/f.txt", []byte("x")))
	require.NoError(t, m.Trash(ctx, "/f.txt"))
	_, err := m.Stat(ctx, "/f.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMemory_WriteClonesData(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, m.WriteFile(ctx, "/f.txt", buf))
	buf[0] = 'z'

	data, err := m.ReadFile(ctx, "/f.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data, "stored contents must not alias the caller's buffer")
}
