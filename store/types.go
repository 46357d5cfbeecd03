package store

import "github.com/iov-one/pantheon"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = pantheon.ReadOnlyKVStore
type SetDeleter = pantheon.SetDeleter
type KVStore = pantheon.KVStore
type Batch = pantheon.Batch
type Iterator = pantheon.Iterator
type CacheableKVStore = pantheon.CacheableKVStore
type KVCacheWrap = pantheon.KVCacheWrap
type CommitKVStore = pantheon.CommitKVStore

// Model is a single key value pair, as stored in the database.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a Model from a key and a value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
