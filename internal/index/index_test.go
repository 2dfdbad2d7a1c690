package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxticOVFL/rsdkv6-extract/internal/testutil"
)

func buildFixture(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Data.db")
	testutil.BuildIndex(t, path,
		[]testutil.TestPack{
			{ID: 1, Name: "packA"},
			{ID: 2, Name: "packB"},
		},
		[]testutil.TestFile{
			{Path: "cccc", Pack: 2, Offset: 0, Size: 8},
			{Path: "aaaa", Pack: 1, Offset: 0, Size: 4},
			{Path: "bbbb", Pack: 1, Offset: 4, Size: 12},
			{Path: "orphan", Pack: 9, Offset: 0, Size: 1},
		},
	)
	return path
}

func TestOpen(t *testing.T) {
	t.Parallel()

	path := buildFixture(t)
	idx, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer idx.Close()

	want, err := filepath.EvalSymlinks(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, want, idx.Dir())
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCount(t *testing.T) {
	t.Parallel()

	idx, err := Open(context.Background(), buildFixture(t))
	require.NoError(t, err)
	defer idx.Close()

	n, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n, "count includes rows without a pack")
}

func TestRows_PackOrder(t *testing.T) {
	t.Parallel()

	idx, err := Open(context.Background(), buildFixture(t))
	require.NoError(t, err)
	defer idx.Close()

	var rows []Row
	for r, err := range idx.Rows(context.Background()) {
		require.NoError(t, err)
		rows = append(rows, r)
	}

	require.Len(t, rows, 3, "inner join drops rows without a pack")
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Pack, rows[i].Pack)
	}
	assert.Equal(t, int64(2), rows[2].Pack)
	assert.Equal(t, Row{Path: "cccc", Pack: 2, Offset: 0, Size: 8, PackName: "packB"}, rows[2])

	for _, r := range rows[:2] {
		assert.Equal(t, "packA", r.PackName)
	}
}

func TestRows_EarlyBreak(t *testing.T) {
	t.Parallel()

	idx, err := Open(context.Background(), buildFixture(t))
	require.NoError(t, err)
	defer idx.Close()

	n := 0
	for _, err := range idx.Rows(context.Background()) {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)

	// The connection is released after a break.
	count, err := idx.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestRows_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.db")
	testutil.BuildIndex(t, path, nil, nil)
	idx, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer idx.Close()

	for _, err := range idx.Rows(context.Background()) {
		require.NoError(t, err)
		t.Fatal("empty index yielded a row")
	}
}
