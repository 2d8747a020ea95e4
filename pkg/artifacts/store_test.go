package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("standing desk", []byte("<html>blocked</html>"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>blocked</html>", string(data))

	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "standing_desk_"))
	assert.True(t, strings.HasSuffix(name, ".html"))
}

func TestStoreSave_UniqueNamesForRepeatedSaves(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save("desk", []byte("page one"))
	require.NoError(t, err)
	b, err := store.Save("desk", []byte("page two"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreSave_EmptySlugFallback(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("???", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "keyword_"))
}
