package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreWriteCommit(t *testing.T) {
	s := MockCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	k, v := []byte("project:1"), []byte("data")

	cache := s.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	// writes buffered in the cache are not yet visible
	got, err := s.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.Write())
	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = s.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
}

func TestCommitStoreDiscard(t *testing.T) {
	s := MockCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("lost"), []byte("data")))
	cache.Discard()

	_, err := s.Commit()
	require.NoError(t, err)

	got, err := s.Get([]byte("lost"))
	require.NoError(t, err)
	assert.Nil(t, got)
}
