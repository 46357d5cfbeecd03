package orm

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// raw values.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db pantheon.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given key exists.
	Has(db pantheon.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. The model is validated
	// before saving.
	Put(db pantheon.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db pantheon.KVStore, key []byte) error

	// Range loads into the destination at most limit entities, ordered by
	// their key, with a key strictly greater than startAfter. Use nil
	// startAfter to start with the first entity and limit 0 to load all.
	// Keys of the loaded entities are returned.
	Range(db pantheon.ReadOnlyKVStore, startAfter []byte, limit int, dest ModelSlicePtr) ([][]byte, error)

	// Clear removes all entities stored in the bucket and returns their
	// count.
	Clear(db pantheon.KVStore) (int, error)
}

// NewModelBucket returns a ModelBucket instance that stores models of the
// same type as the given one.
func NewModelBucket(name string, m Model) ModelBucket {
	return &modelBucket{
		b:     NewBucket(name),
		model: reflect.TypeOf(m),
	}
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) One(db pantheon.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := proto.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot unmarshal %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db pantheon.ReadOnlyKVStore, key []byte) (bool, error) {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) Put(db pantheon.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := proto.Marshal(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot marshal %T: %s", m, err)
	}
	if err := mb.b.Set(db, key, raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db pantheon.KVStore, key []byte) error {
	ok, err := mb.b.Has(db, key)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s key %q", mb.b.name, key)
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Range(db pantheon.ReadOnlyKVStore, startAfter []byte, limit int, dest ModelSlicePtr) ([][]byte, error) {
	slice, elem, err := mb.destination(dest)
	if err != nil {
		return nil, err
	}

	it, err := mb.b.Iterator(db, startAfter)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var keys [][]byte
	for it.Valid() && (limit <= 0 || len(keys) < limit) {
		m := reflect.New(mb.model.Elem())
		if err := proto.Unmarshal(it.Value(), m.Interface().(Model)); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "cannot unmarshal %s: %s", mb.model, err)
		}
		if elem.Kind() == reflect.Ptr {
			slice = reflect.Append(slice, m)
		} else {
			slice = reflect.Append(slice, m.Elem())
		}
		keys = append(keys, append([]byte{}, mb.b.Key(it.Key())...))

		if err := it.Next(); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}

	reflect.ValueOf(dest).Elem().Set(slice)
	return keys, nil
}

// destination validates that dest is a pointer to a slice of this bucket
// models and returns the slice value together with the element type.
func (mb *modelBucket) destination(dest ModelSlicePtr) (reflect.Value, reflect.Type, error) {
	ptr := reflect.ValueOf(dest)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() || ptr.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, nil, errors.Wrapf(errors.ErrType, "destination must be a pointer to a slice, got %T", dest)
	}
	elem := ptr.Elem().Type().Elem()
	if elem != mb.model && reflect.PtrTo(elem) != mb.model {
		return reflect.Value{}, nil, errors.Wrapf(errors.ErrType, "cannot load %s into %T", mb.model, dest)
	}
	return ptr.Elem().Slice(0, 0), elem, nil
}

func (mb *modelBucket) Clear(db pantheon.KVStore) (int, error) {
	it, err := mb.b.Iterator(db, nil)
	if err != nil {
		return 0, err
	}
	// Collect first, the store must not be modified while iterating.
	var keys [][]byte
	for it.Valid() {
		keys = append(keys, append([]byte{}, it.Key()...))
		if err := it.Next(); err != nil {
			it.Close()
			return 0, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	it.Close()

	for _, k := range keys {
		if err := db.Delete(k); err != nil {
			return 0, errors.Wrap(errors.ErrDatabase, err.Error())
		}
	}
	return len(keys), nil
}

var _ ModelBucket = (*modelBucket)(nil)
