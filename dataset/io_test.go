package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := FromRows([][]float64{
		{0.5, -1.25, 3},
		{1e-9, 42, -7.5},
	})
	require.NoError(t, err)
	return m
}

func TestTextRoundTrip(t *testing.T) {
	t.Run("Plain", func(t *testing.T) {
		m := testMatrix(t)
		path := filepath.Join(t.TempDir(), "matrix.txt")

		require.NoError(t, Save(m, path))
		got, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, m.Rows(), got.Rows())
		assert.Equal(t, m.Dim(), got.Dim())
		for i := 0; i < m.Rows(); i++ {
			assert.Equal(t, m.Row(i), got.Row(i))
		}
	})

	t.Run("Gzip", func(t *testing.T) {
		m := testMatrix(t)
		path := filepath.Join(t.TempDir(), "matrix.txt.gz")

		require.NoError(t, Save(m, path))
		got, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, m.Row(1), got.Row(1))
	})
}

func TestRead(t *testing.T) {
	t.Run("SkipsBlankLines", func(t *testing.T) {
		m, err := Read(strings.NewReader("1 2\n\n3 4\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, m.Rows())
	})

	t.Run("Ragged", func(t *testing.T) {
		_, err := Read(strings.NewReader("1 2\n3\n"))
		var ragged *ErrRaggedRows
		assert.ErrorAs(t, err, &ragged)
	})

	t.Run("BadNumber", func(t *testing.T) {
		_, err := Read(strings.NewReader("1 x\n"))
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmpty)
	})
}

func TestBinaryRoundTrip(t *testing.T) {
	m := testMatrix(t)
	path := filepath.Join(t.TempDir(), "matrix.kdem")

	require.NoError(t, WriteBinary(m, path))

	mapped, err := OpenBinary(path)
	require.NoError(t, err)
	defer mapped.Close()

	assert.Equal(t, m.Rows(), mapped.Rows())
	assert.Equal(t, m.Dim(), mapped.Dim())
	for i := 0; i < m.Rows(); i++ {
		assert.Equal(t, m.Row(i), mapped.Row(i))
	}

	require.NoError(t, mapped.Close())
	// Close is idempotent.
	require.NoError(t, mapped.Close())
}

func TestOpenBinaryErrors(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		_, err := OpenBinary(filepath.Join(t.TempDir(), "nope.kdem"))
		assert.Error(t, err)
	})

	t.Run("Truncated", func(t *testing.T) {
		m := testMatrix(t)
		dir := t.TempDir()
		path := filepath.Join(dir, "matrix.kdem")
		require.NoError(t, WriteBinary(m, path))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		bad := filepath.Join(dir, "bad.kdem")
		require.NoError(t, os.WriteFile(bad, raw[:len(raw)-8], 0o644))

		_, err = OpenBinary(bad)
		assert.Error(t, err)
	})
}
