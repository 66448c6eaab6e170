package orm

import (
	"regexp"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

// isBucketName checks we only use [a-z_] as bucket names
var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores entities of one model type under a common key
// prefix. All access to the bucket section of the database should go
// through it.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. The result is loaded into dest.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db custody.ReadOnlyKVStore, key []byte, dest Model) error

	// Has checks an entity with given primary key exists.
	Has(db custody.ReadOnlyKVStore, key []byte) (bool, error)

	// Put validates and saves given model in the database.
	Put(db custody.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the
	// database. It returns ErrNotFound if an entity with given key
	// does not exist.
	Delete(db custody.KVStore, key []byte) error
}

// NewModelBucket returns a ModelBucket that writes under the given
// name prefix. It panics on an invalid name, as this is a programmer
// error.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(errors.Wrapf(errors.ErrState, "invalid bucket name: %s", name))
	}
	return modelBucket{
		prefix: []byte(name + ":"),
	}
}

type modelBucket struct {
	prefix []byte
}

var _ ModelBucket = modelBucket{}

func (mb modelBucket) dbKey(key []byte) []byte {
	return append(mb.prefix, key...)
}

func (mb modelBucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot parse %T", dest)
	}
	return nil
}

func (mb modelBucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(mb.dbKey(key))
}

func (mb modelBucket) Put(db custody.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInput, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot serialize %T", m)
	}
	return db.Set(mb.dbKey(key), raw)
}

func (mb modelBucket) Delete(db custody.KVStore, key []byte) error {
	dbKey := mb.dbKey(key)
	ok, err := db.Has(dbKey)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrap(errors.ErrNotFound, "cannot delete")
	}
	return db.Delete(dbKey)
}
