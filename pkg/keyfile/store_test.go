package keyfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSaveLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "wiegand"))
	f := synthetic(26, 12345)

	p, err := s.Save("front door", &f)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir, "front door.wgn"), p)
	assert.True(t, s.Exists("front door"))
	assert.True(t, s.Exists("front door.wgn"))

	got, err := s.Load("front door.wgn")
	require.NoError(t, err)
	assert.True(t, f.Equal(&got))

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"front door"}, names)
}

func TestStoreListMissingDir(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nothing"))
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStoreListSkipsOtherFiles(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir, "sub.wgn"), 0o755))

	f := synthetic(8, 0)
	_, err := s.Save("b", &f)
	require.NoError(t, err)
	_, err = s.Save("a", &f)
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestStoreInvalidNames(t *testing.T) {
	s := NewStore(t.TempDir())
	f := synthetic(4, 0)

	for _, name := range []string{"", "..", "../x", "a/b", `a\b`, ".wgn"} {
		_, err := s.Save(name, &f)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		_, err = s.Load(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.False(t, s.Exists(name), name)
	}
}

func TestStoreLoadErrors(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Load("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, "broken.wgn"), []byte("Filetype: nope\n"), 0o644))
	_, err = s.Load("broken")
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestStoreNextName(t *testing.T) {
	s := NewStore(t.TempDir())
	at := time.Date(2026, 10, 16, 9, 30, 5, 0, time.UTC)

	name := s.NextName(at)
	assert.Equal(t, "wiegand_20261016-093005", name)

	f := synthetic(4, 0)
	_, err := s.Save(name, &f)
	require.NoError(t, err)
	assert.Equal(t, "wiegand_20261016-093005_1", s.NextName(at))
}
