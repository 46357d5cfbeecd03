/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Entities are stored under a primary key and iterated in the key order.
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
	"github.com/iov-one/pantheon/store"
)

const (
	// SeqID is a constant to use to get a default ID sequence
	SeqID = "id"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a prefixed subspace of the DB. It does not know the type of the
// stored data. Use ModelBucket for a type-safe access.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket creates a bucket to store data
func NewBucket(name string) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get returns the raw value stored under the key or nil.
func (b Bucket) Get(db pantheon.ReadOnlyKVStore, key []byte) ([]byte, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return raw, nil
}

// Has returns true if a value is stored under the key.
func (b Bucket) Has(db pantheon.ReadOnlyKVStore, key []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Set writes the raw value under the key.
func (b Bucket) Set(db pantheon.KVStore, key, value []byte) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := db.Set(b.DBKey(key), value); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Delete will remove the value at a key
func (b Bucket) Delete(db pantheon.KVStore, key []byte) error {
	if err := db.Delete(b.DBKey(key)); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// Iterator returns an iterator over all entries of this bucket with a key
// strictly greater than startAfter. Use nil to iterate from the first entry.
// Returned keys still carry the bucket prefix; use Key to strip it.
func (b Bucket) Iterator(db pantheon.ReadOnlyKVStore, startAfter []byte) (pantheon.Iterator, error) {
	start := b.prefix
	if startAfter != nil {
		// The smallest key that is greater than startAfter.
		start = append(b.DBKey(startAfter), 0)
	}
	it, err := db.Iterator(start, store.PrefixEnd(b.prefix))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return it, nil
}

// Key strips the bucket prefix from a database key.
func (b Bucket) Key(dbkey []byte) []byte {
	return dbkey[len(b.prefix):]
}

// Sequence returns a Sequence by name
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}
