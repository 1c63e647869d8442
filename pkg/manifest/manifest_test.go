package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, &Manifest{}, m)
}

func TestManifest_AddSnapshot(t *testing.T) {
	m := &Manifest{}
	m.AddSnapshot(Snapshot{Name: "petstore", Version: "v1", File: "a.yaml"})
	assert.Equal(t, "v1", m.CurrentVersion)
	assert.Empty(t, m.PreviousVersion)

	m.AddSnapshot(Snapshot{Name: "petstore", Version: "v2", File: "b.yaml"})
	assert.Equal(t, "v2", m.CurrentVersion)
	assert.Equal(t, "v1", m.PreviousVersion)

	// re-recording the current version keeps the previous pointer
	m.AddSnapshot(Snapshot{Name: "petstore", Version: "v2", File: "c.yaml"})
	assert.Equal(t, "v1", m.PreviousVersion)
	require.Len(t, m.Snapshots, 2)
	assert.Equal(t, "c.yaml", m.SnapshotFile("v2"))
	assert.Equal(t, "", m.SnapshotFile("v3"))

	_, ok := m.Find("v3")
	assert.False(t, ok)
}

func TestManifest_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.yaml")
	m := &Manifest{}
	m.AddSnapshot(Snapshot{Name: "petstore", Version: "v1", File: "a.yaml", Digest: "abc", Models: 3, Operations: 2})
	require.NoError(t, m.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, m, got)

	require.NoError(t, os.WriteFile(path, []byte("snapshots: {"), 0o644))
	_, err = Load(path)
	require.ErrorContains(t, err, "unmarshal manifest")
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	d, err := Digest(path)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", d)

	_, err = Digest(filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
