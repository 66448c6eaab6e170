/*
Package iavl provides a durable CommitKVStore backed by an iavl
merkle tree over leveldb.
*/
package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tm-db"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

// cacheSize is the size of the iavl node lru cache
const cacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ custody.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing at the
// given path and name
func NewCommitStore(path, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, path)
	tree := iavl.NewMutableTree(db, cacheSize)
	return CommitStore{tree: tree}
}

// MockCommitStore returns a db backed by memory, for tests
func MockCommitStore() CommitStore {
	tree := iavl.NewMutableTree(dbm.NewMemDB(), cacheSize)
	return CommitStore{tree: tree}
}

// LoadLatestVersion loads the latest persisted version.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "cannot load latest version")
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() custody.CommitID {
	return custody.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// Get returns the value at last committed state
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (custody.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return custody.CommitID{}, errors.Wrap(err, "cannot save version")
	}
	return custody.CommitID{Version: version, Hash: hash}, nil
}

// CacheWrap returns a scratch-pad that writes into the working tree
// on Write, and is persisted to disk by the next Commit
func (s CommitStore) CacheWrap() custody.KVCacheWrap {
	return store.NewBTreeCacheWrap(treeWriter{s.tree}, nil)
}

// treeWriter exposes the working iavl tree as a KVStore so the
// btree cache can flush into it
type treeWriter struct {
	tree *iavl.MutableTree
}

var _ custody.KVStore = treeWriter{}

func (t treeWriter) Get(key []byte) ([]byte, error) {
	_, value := t.tree.Get(key)
	return value, nil
}

func (t treeWriter) Has(key []byte) (bool, error) {
	return t.tree.Has(key), nil
}

func (t treeWriter) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

func (t treeWriter) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}
