/*
Package boltstore provides a persistent KVStore backed by a bbolt database
file. Writes done through a cache wrap are committed in a single bbolt
transaction, so a request is either fully persisted or not at all.
*/
package boltstore

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/store"
	"go.etcd.io/bbolt"
)

var bucketState = []byte("state")

// DB is a CommitKVStore persisting all data in a single bbolt bucket.
type DB struct {
	db *bbolt.DB
}

var _ store.CommitKVStore = (*DB)(nil)

// Open opens or creates the database at dbPath. The parent directory is
// created if it does not exist.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create directory: %s", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open bolt db: %s", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create bucket: %s", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database.
func (s *DB) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Commit flushes the database file to the disk.
func (s *DB) Commit() error {
	if err := s.db.Sync(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Get returns nil iff key doesn't exist.
func (s *DB) Get(key []byte) ([]byte, error) {
	var res []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		// Values are valid only for the life of the transaction.
		if v := tx.Bucket(bucketState).Get(key); v != nil {
			res = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

// Has checks if a key exists.
func (s *DB) Has(key []byte) (bool, error) {
	v, err := s.Get(key)
	return v != nil, err
}

// Set writes a single value in its own transaction.
func (s *DB) Set(key, value []byte) error {
	return s.update([]store.Op{store.SetOp(key, value)})
}

// Delete removes a single value in its own transaction.
func (s *DB) Delete(key []byte) error {
	return s.update([]store.Op{store.DelOp(key)})
}

// NewBatch returns a batch that writes all operations in one transaction.
func (s *DB) NewBatch() store.Batch {
	return &batch{db: s}
}

// CacheWrap returns a btree cache on top of this database. Writing the cache
// commits all changes atomically.
func (s *DB) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// The result is a snapshot, taken when the iterator is created.
func (s *DB) Iterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketState).Cursor()
		k, v := c.First()
		if start != nil {
			k, v = c.Seek(start)
		}
		for ; k != nil; k, v = c.Next() {
			if end != nil && bytes.Compare(k, end) >= 0 {
				break
			}
			res = append(res, copyPair(k, v))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(res), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (s *DB) ReverseIterator(start, end []byte) (store.Iterator, error) {
	var res []store.Model
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketState).Cursor()
		var k, v []byte
		if end == nil {
			k, v = c.Last()
		} else {
			// Seek positions at the first key >= end, which is excluded.
			k, v = c.Seek(end)
			if k == nil {
				k, v = c.Last()
			} else {
				k, v = c.Prev()
			}
		}
		for ; k != nil; k, v = c.Prev() {
			if start != nil && bytes.Compare(k, start) < 0 {
				break
			}
			res = append(res, copyPair(k, v))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.NewSliceIterator(res), nil
}

func (s *DB) update(ops []store.Op) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketState)
		for _, op := range ops {
			if err := op.Apply(bucketWriter{b}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

func copyPair(k, v []byte) store.Model {
	return store.Pair(append([]byte{}, k...), append([]byte{}, v...))
}

// bucketWriter adapts a bbolt bucket to the SetDeleter interface.
type bucketWriter struct {
	b *bbolt.Bucket
}

func (w bucketWriter) Set(key, value []byte) error {
	return w.b.Put(key, value)
}

func (w bucketWriter) Delete(key []byte) error {
	return w.b.Delete(key)
}

// batch collects operations and writes them in a single transaction.
type batch struct {
	db  *DB
	ops []store.Op
}

var _ store.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

func (b *batch) Write() error {
	if len(b.ops) == 0 {
		return nil
	}
	err := b.db.update(b.ops)
	b.ops = nil
	return err
}
