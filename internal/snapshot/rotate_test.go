package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotate_CopiesCurrentToPrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := Pair{
		Current:  filepath.Join(dir, "products.csv"),
		Previous: filepath.Join(dir, "products_yesterday.csv"),
	}

	content := "product_id,price\np1,100\n"
	require.NoError(t, os.WriteFile(p.Current, []byte(content), 0o600))

	require.NoError(t, p.Rotate())

	got, err := os.ReadFile(p.Previous)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
	assert.True(t, p.HasBaseline())
}

func TestRotate_OverwritesStalePrevious(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := Pair{
		Current:  filepath.Join(dir, "products.csv"),
		Previous: filepath.Join(dir, "products_yesterday.csv"),
	}

	require.NoError(t, os.WriteFile(p.Previous, []byte("old generation, longer than the new one\n"), 0o600))
	require.NoError(t, os.WriteFile(p.Current, []byte("fresh\n"), 0o600))

	require.NoError(t, p.Rotate())

	got, err := os.ReadFile(p.Previous)
	require.NoError(t, err)
	assert.Equal(t, "fresh\n", string(got))
}

func TestRotate_FirstRunIsNoOp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := Pair{
		Current:  filepath.Join(dir, "products.csv"),
		Previous: filepath.Join(dir, "products_yesterday.csv"),
	}

	require.NoError(t, p.Rotate())

	_, err := os.Stat(p.Previous)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, p.HasBaseline())
}
