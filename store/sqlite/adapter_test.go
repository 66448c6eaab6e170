package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreRoundtrip(t *testing.T) {
	s, err := NewCommitStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.LoadLatestVersion())

	k, v := []byte("project:7"), []byte("data")

	cache := s.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	require.NoError(t, cache.Write())

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)

	got, err := s.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	// delete in a later version
	cache = s.CacheWrap()
	require.NoError(t, cache.Delete(k))
	require.NoError(t, cache.Write())
	id, err = s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id.Version)

	got, err = s.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCommitStoreVersionPersists(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/state.db"

	s, err := NewCommitStore(path)
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())
	require.NoError(t, s.CacheWrap().Write())
	_, err = s.Commit()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewCommitStore(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.LoadLatestVersion())
	assert.Equal(t, int64(1), s.LatestVersion().Version)
}
