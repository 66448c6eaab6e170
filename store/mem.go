package store

import (
	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var errInvalidItem = errors.Wrap(errors.ErrState, "invalid item in btree cache")

// MemStore returns a simple implementation of CacheableKVStore,
// backed by an in-memory map. It is primarily for testing.
func MemStore() custody.CacheableKVStore {
	m := memStore{
		data: make(map[string][]byte),
	}
	return BTreeCacheable{m}
}

type memStore struct {
	data map[string][]byte
}

var _ custody.KVStore = memStore{}

func (m memStore) Get(key []byte) ([]byte, error) {
	return m.data[string(key)], nil
}

func (m memStore) Has(key []byte) (bool, error) {
	_, ok := m.data[string(key)]
	return ok, nil
}

func (m memStore) Set(key, value []byte) error {
	m.data[string(key)] = value
	return nil
}

func (m memStore) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}
