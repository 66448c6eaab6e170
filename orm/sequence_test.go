package orm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/store"
)

func TestSequenceIncrements(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("prjs", "id")

	var prev []byte
	for i := int64(1); i <= 10; i++ {
		val, err := s.NextInt(db)
		require.NoError(t, err)
		assert.Equal(t, i, val)

		bz := EncodeSequence(i)
		if prev != nil {
			assert.True(t, bytes.Compare(prev, bz) < 0)
		}
		prev = bz
	}
}

func TestSequenceLatest(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("prjs", "id")

	// fresh sequence reads as zero
	val, _, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), val)

	_, err = s.NextVal(db)
	require.NoError(t, err)

	val, raw, err := s.Latest(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
	assert.Equal(t, EncodeSequence(1), raw)

	// Latest does not advance the counter
	val, err = s.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), val)
}

func TestSequencesAreIndependent(t *testing.T) {
	db := store.MemStore()
	a := NewSequence("prjs", "id")
	b := NewSequence("props", "id")

	_, err := a.NextVal(db)
	require.NoError(t, err)

	val, err := b.NextInt(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), val)
}
