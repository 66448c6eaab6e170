package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBTreeCacheGetSet(t *testing.T) {
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	k2 := []byte("greek")

	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()

	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	got, err = cache.Get(k2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBTreeCacheConceal(t *testing.T) {
	base := MemStore()

	k, v := []byte("winter"), []byte("storm")
	require.NoError(t, base.Set(k, v))

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete(k))

	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	has, err := cache.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	// base is untouched until write
	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, cache.Write())

	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBTreeCacheDiscard(t *testing.T) {
	base := MemStore()

	k, v := []byte("spring"), []byte("rain")

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	got, err := cache.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	cache.Discard()

	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBTreeCacheNested(t *testing.T) {
	base := MemStore()

	k, v := []byte("autumn"), []byte("leaf")
	k2, v2 := []byte("summer"), []byte("sun")

	cache := base.CacheWrap()
	require.NoError(t, cache.Set(k, v))

	inner := cache.CacheWrap()
	require.NoError(t, inner.Set(k2, v2))

	// inner sees both, cache only sees first
	got, err := inner.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	has, err := cache.Has(k2)
	require.NoError(t, err)
	assert.False(t, has)

	// discard inner, write outer
	inner.Discard()
	require.NoError(t, cache.Write())

	got, err = base.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)
	got, err = base.Get(k2)
	require.NoError(t, err)
	assert.Nil(t, got)
}
