package store

import (
	"bytes"

	"github.com/google/btree"

	custody "github.com/iov-one/custody"
)

// DefaultFreeListSize is the size we hold for free nodes in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a simple btree-based CacheWrap
// strategy to a KVStore
type BTreeCacheable struct {
	custody.KVStore
}

var _ custody.CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (b BTreeCacheable) CacheWrap() custody.KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, nil)
}

// BTreeCacheWrap places a btree cache over a KVStore. All reads are
// answered from the cache first, all writes are buffered in the cache
// until Write is called.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back custody.KVStore
}

var _ custody.KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv custody.KVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
	}
}

// CacheWrap layers another BTree on top of this one.
// Don't change horses in mid-stream....
func (b BTreeCacheWrap) CacheWrap() custody.KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// Write syncs with the underlying store.
// And then cleans up
func (b BTreeCacheWrap) Write() (err error) {
	b.bt.Ascend(func(i btree.Item) bool {
		switch t := i.(type) {
		case setItem:
			err = b.back.Set(t.key, t.value)
		case deletedItem:
			err = b.back.Delete(t.key)
		}
		return err == nil
	})
	b.Discard()
	return err
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = rem == nil
	}
}

// Set buffers the write in the BTree
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

// Delete buffers the removal in the BTree
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(newDeletedItem(key))
	return nil
}

// Get reads from the BTree if the key was written to this cache,
// else it falls back to the backing store
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	res := b.bt.Get(bkey{key})
	switch t := res.(type) {
	case setItem:
		return t.value, nil
	case deletedItem:
		return nil, nil
	case nil:
		return b.back.Get(key)
	default:
		return nil, errInvalidItem
	}
}

// Has behaves like Get, just with less data transfer
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	res := b.bt.Get(bkey{key})
	switch res.(type) {
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	case nil:
		return b.back.Has(key)
	default:
		return false, errInvalidItem
	}
}

/////////////////////////////////////////////////////////
// Items to write to btree

// bkey implements btree.Item and is used for lookups only
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

// Less returns true if this key is smaller than the other item key
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

// Key returns the sort key of this item
func (k bkey) Key() []byte {
	return k.key
}

// keyer is an interface for all items to sort by key
type keyer interface {
	Key() []byte
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{
		bkey:  bkey{key},
		value: value,
	}
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{
		bkey: bkey{key},
	}
}
