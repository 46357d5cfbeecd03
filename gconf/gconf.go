package gconf

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pantheon/errors"
)

// ReadStore is a subset of pantheon.ReadOnlyKVStore.
type ReadStore interface {
	Get([]byte) ([]byte, error)
	Has([]byte) (bool, error)
}

// Store is a subset of pantheon.KVStore.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is implemented by any protobuf message that can validate
// its state.
type Configuration interface {
	proto.Message
	Validate() error
}

// Key returns the database key of the configuration of given package.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save will Validate the object, before writing it to a special "configuration"
// singleton for that package name.
func Save(db Store, pkg string, src Configuration) error {
	key := Key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := proto.Marshal(src)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "marshal: key %q: %s", key, err)
	}
	if err := db.Set(key, raw); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "key %q: %s", key, err)
	}
	return nil
}

// Load reads the configuration of given package into dst. It returns
// ErrNotFound if the configuration was never saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	key := Key(pkg)
	raw, err := db.Get(key)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "key %q: %s", key, err)
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := proto.Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal: key %q: %s", key, err)
	}
	return nil
}

// Exists returns true if a configuration of given package was saved.
func Exists(db ReadStore, pkg string) (bool, error) {
	ok, err := db.Has(Key(pkg))
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "key %q: %s", Key(pkg), err)
	}
	return ok, nil
}
