package themepack

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexStartsEmpty(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "nested", "index.json"))
	require.NoError(t, err)
	assert.Empty(t, idx.List())
}

func TestIndexPutSaveReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	idx, err := OpenIndex(path)
	require.NoError(t, err)

	idx.Put(Installed{ID: "1", Name: "ocean", Version: "1.0.0", Path: "/packs/ocean.yaml", InstalledAt: time.Unix(0, 0).UTC()})
	idx.Put(Installed{ID: "2", Name: "alpha", Version: "1.0.0", Path: "/packs/alpha.yaml"})
	idx.Put(Installed{ID: "3", Name: "ocean", Version: "1.1.0", Path: "/packs/ocean.yaml"})
	require.NoError(t, idx.Save())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	reopened, err := OpenIndex(path)
	require.NoError(t, err)

	list := reopened.List()
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "1.1.0", list[1].Version)
	assert.Equal(t, []string{"/packs/alpha.yaml", "/packs/ocean.yaml"}, reopened.Paths())
}

func TestIndexGetAndRemove(t *testing.T) {
	idx, err := OpenIndex(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, err)
	idx.Put(Installed{Name: "ocean"})

	got, err := idx.Get("ocean")
	require.NoError(t, err)
	assert.Equal(t, "ocean", got.Name)

	require.NoError(t, idx.Remove("ocean"))
	require.Error(t, idx.Remove("ocean"))
	_, err = idx.Get("ocean")
	require.Error(t, err)
}

func TestIndexRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := OpenIndex(path)
	require.Error(t, err)
}
