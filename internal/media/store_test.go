package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndReadRoundtrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("fake image bytes")
	rel, err := store.Save(data, "My Photo.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, filepath.Join("images")+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(rel, "my photo.png"), "filename lowercased: %s", rel)

	got, err := store.Read(rel)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSaveKeepsSameNameUploadsDistinct(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.Save([]byte("one"), "face.png")
	require.NoError(t, err)
	b, err := store.Save([]byte("two"), "face.png")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestNewStoreCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "media")
	_, err := NewStore(base)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(base, "images"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestReadMissingFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(filepath.Join("images", "absent.png"))
	assert.Error(t, err)
}
