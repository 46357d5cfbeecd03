package store

// PrefixStore exposes a part of a KVStore as a standalone store. Every key
// is transparently prefixed, so that the user of the store can only see and
// modify keys under its prefix.
type PrefixStore struct {
	prefix []byte
	kv     KVStore
}

var _ KVStore = (*PrefixStore)(nil)

// NewPrefixStore returns a store limited to keys starting with prefix.
func NewPrefixStore(kv KVStore, prefix []byte) *PrefixStore {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixStore{prefix: p, kv: kv}
}

func (p *PrefixStore) key(k []byte) []byte {
	res := make([]byte, 0, len(p.prefix)+len(k))
	res = append(res, p.prefix...)
	return append(res, k...)
}

// bounds translates a range of the prefixed store into the range of the
// underlying store. Nil bounds are limited to the prefix.
func (p *PrefixStore) bounds(start, end []byte) ([]byte, []byte) {
	s := p.key(start)
	var e []byte
	if end == nil {
		e = PrefixEnd(p.prefix)
	} else {
		e = p.key(end)
	}
	return s, e
}

func (p *PrefixStore) Get(key []byte) ([]byte, error) {
	return p.kv.Get(p.key(key))
}

func (p *PrefixStore) Has(key []byte) (bool, error) {
	return p.kv.Has(p.key(key))
}

func (p *PrefixStore) Set(key, value []byte) error {
	return p.kv.Set(p.key(key), value)
}

func (p *PrefixStore) Delete(key []byte) error {
	return p.kv.Delete(p.key(key))
}

func (p *PrefixStore) Iterator(start, end []byte) (Iterator, error) {
	s, e := p.bounds(start, end)
	it, err := p.kv.Iterator(s, e)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, strip: len(p.prefix)}, nil
}

func (p *PrefixStore) ReverseIterator(start, end []byte) (Iterator, error) {
	s, e := p.bounds(start, end)
	it, err := p.kv.ReverseIterator(s, e)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{Iterator: it, strip: len(p.prefix)}, nil
}

func (p *PrefixStore) NewBatch() Batch {
	return &prefixBatch{Batch: p.kv.NewBatch(), store: p}
}

// prefixIterator removes the prefix from the keys of the wrapped iterator.
type prefixIterator struct {
	Iterator
	strip int
}

func (i *prefixIterator) Key() []byte {
	return i.Iterator.Key()[i.strip:]
}

type prefixBatch struct {
	Batch
	store *PrefixStore
}

func (b *prefixBatch) Set(key, value []byte) error {
	return b.Batch.Set(b.store.key(key), value)
}

func (b *prefixBatch) Delete(key []byte) error {
	return b.Batch.Delete(b.store.key(key))
}

// PrefixEnd returns the smallest key that is greater than all keys starting
// with the prefix. Nil is returned when no such key exists.
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
