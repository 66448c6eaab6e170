/*
Package sqlite provides a CommitKVStore backed by a sqlite database.

It trades the merkle proofs of the iavl backend for a single portable
database file, which is easier to inspect and back up. Commit hashes
are therefore empty.
*/
package sqlite

import (
	"database/sql"

	_ "modernc.org/sqlite"

	custody "github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   BLOB PRIMARY KEY,
	value BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
	name    TEXT PRIMARY KEY,
	version INTEGER NOT NULL
);
`

// CommitStore manages committed state in a sqlite database. All
// writes go through an open transaction that Commit finalizes.
type CommitStore struct {
	db      *sql.DB
	tx      *sql.Tx
	version int64
}

var _ custody.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) a sqlite database at the given
// path. Use ":memory:" for an ephemeral store.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open database")
	}
	// modernc sqlite does not support concurrent writers
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		return nil, errors.Wrap(err, "cannot ensure schema")
	}
	return &CommitStore{db: db}, nil
}

// LoadLatestVersion loads the latest persisted version and opens the
// transaction that the next Commit will finalize.
func (s *CommitStore) LoadLatestVersion() error {
	var version int64
	err := s.db.QueryRow(`SELECT version FROM meta WHERE name = 'state'`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		version = 0
	case err != nil:
		return errors.Wrap(err, "cannot read version")
	}
	s.version = version
	return s.begin()
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() custody.CommitID {
	return custody.CommitID{Version: s.version}
}

// Get returns the value at last committed state
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.tx.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return nil, nil
	case err != nil:
		return nil, errors.Wrap(err, "cannot query key")
	}
	return value, nil
}

// Commit finalizes the open transaction, bumps the version and opens
// a fresh transaction for the next block of writes.
func (s *CommitStore) Commit() (custody.CommitID, error) {
	next := s.version + 1
	_, err := s.tx.Exec(
		`INSERT INTO meta (name, version) VALUES ('state', ?)
		 ON CONFLICT (name) DO UPDATE SET version = ?`, next, next)
	if err != nil {
		return custody.CommitID{}, errors.Wrap(err, "cannot bump version")
	}
	if err := s.tx.Commit(); err != nil {
		return custody.CommitID{}, errors.Wrap(err, "cannot commit transaction")
	}
	s.version = next
	if err := s.begin(); err != nil {
		return custody.CommitID{}, err
	}
	return custody.CommitID{Version: s.version}, nil
}

// CacheWrap returns a scratch-pad that writes into the open
// transaction on Write, and is persisted by the next Commit
func (s *CommitStore) CacheWrap() custody.KVCacheWrap {
	return store.NewBTreeCacheWrap(txWriter{s}, nil)
}

// Close closes the underlying database, discarding uncommitted writes.
func (s *CommitStore) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback()
	}
	return s.db.Close()
}

func (s *CommitStore) begin() error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "cannot begin transaction")
	}
	s.tx = tx
	return nil
}

// txWriter exposes the open transaction as a KVStore so the btree
// cache can flush into it
type txWriter struct {
	s *CommitStore
}

var _ custody.KVStore = txWriter{}

func (t txWriter) Get(key []byte) ([]byte, error) {
	return t.s.Get(key)
}

func (t txWriter) Has(key []byte) (bool, error) {
	var one int
	err := t.s.tx.QueryRow(`SELECT 1 FROM kv WHERE key = ?`, key).Scan(&one)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "cannot query key")
	}
	return true, nil
}

func (t txWriter) Set(key, value []byte) error {
	_, err := t.s.tx.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	return errors.Wrap(err, "cannot set key")
}

func (t txWriter) Delete(key []byte) error {
	_, err := t.s.tx.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return errors.Wrap(err, "cannot delete key")
}
