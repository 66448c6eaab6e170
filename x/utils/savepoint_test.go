package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// writeHandler writes the given key/value pair and returns the
// configured error.
type writeHandler struct {
	key   []byte
	value []byte
	err   error
}

var _ custody.Handler = writeHandler{}

func (h writeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, h.err
}

func (h writeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	if err := db.Set(h.key, h.value); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, h.err
}

func TestSavepointKeepsWriteOnSuccess(t *testing.T) {
	db := store.MemStore()
	h := writeHandler{key: []byte("a"), value: []byte("1")}
	s := NewSavepoint().OnDeliver()

	_, err := s.Deliver(nil, db, &custodytest.Tx{}, h)
	require.NoError(t, err)

	value, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)
}

func TestSavepointDiscardsWriteOnError(t *testing.T) {
	db := store.MemStore()
	h := writeHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrState}
	s := NewSavepoint().OnDeliver()

	_, err := s.Deliver(nil, db, &custodytest.Tx{}, h)
	assert.True(t, errors.ErrState.Is(err))

	value, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSavepointInactiveByDefault(t *testing.T) {
	db := store.MemStore()
	h := writeHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrState}
	s := NewSavepoint()

	// without OnDeliver the write is not isolated
	_, err := s.Deliver(nil, db, &custodytest.Tx{}, h)
	assert.True(t, errors.ErrState.Is(err))

	value, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), value)
}

func TestSavepointOnCheck(t *testing.T) {
	db := store.MemStore()
	h := writeHandler{key: []byte("a"), value: []byte("1"), err: errors.ErrState}
	s := NewSavepoint().OnCheck()

	_, err := s.Check(nil, db, &custodytest.Tx{}, h)
	assert.True(t, errors.ErrState.Is(err))

	value, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, value)
}
