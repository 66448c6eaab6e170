package orm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// countModel is a minimal Model for testing, persisted as a big
// endian counter value.
type countModel struct {
	Count int64
}

func (c *countModel) Marshal() ([]byte, error) {
	return EncodeSequence(c.Count), nil
}

func (c *countModel) Unmarshal(raw []byte) error {
	c.Count = DecodeSequence(raw)
	return nil
}

func (c *countModel) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "negative count")
	}
	return nil
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	require.NoError(t, b.Put(db, []byte("a"), &countModel{Count: 42}))

	var got countModel
	require.NoError(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, int64(42), got.Count)

	err := b.One(db, []byte("b"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketPutValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("a"), &countModel{Count: -1})
	assert.True(t, errors.ErrState.Is(err))

	has, err := b.Has(db, []byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestModelBucketDelete(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Delete(db, []byte("a"))
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, b.Put(db, []byte("a"), &countModel{Count: 1}))
	require.NoError(t, b.Delete(db, []byte("a")))

	has, err := b.Has(db, []byte("a"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestModelBucketPrefixIsolation(t *testing.T) {
	db := store.MemStore()
	b1 := NewModelBucket("first")
	b2 := NewModelBucket("second")

	require.NoError(t, b1.Put(db, []byte("a"), &countModel{Count: 7}))

	var got countModel
	err := b2.One(db, []byte("a"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestInvalidBucketName(t *testing.T) {
	assert.Panics(t, func() { NewModelBucket("UpperCase") })
	assert.Panics(t, func() { NewModelBucket("x") })
}
