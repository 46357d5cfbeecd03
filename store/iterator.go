package store

import (
	"bytes"

	"github.com/google/btree"
)

// collectAscending returns all cached items within [start, end) in ascending
// key order. Deleted markers are included so that they can shadow the parent
// data.
func collectAscending(bt *btree.BTree, start, end []byte) []keyer {
	var res []keyer
	collect := func(item btree.Item) bool {
		res = append(res, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return res
}

// collectDescending returns all cached items within [start, end) in
// descending key order.
func collectDescending(bt *btree.BTree, start, end []byte) []keyer {
	var res []keyer
	collect := func(item btree.Item) bool {
		k := item.(keyer).Key()
		// End is exclusive, start is inclusive.
		if end != nil && bytes.Compare(k, end) >= 0 {
			return true
		}
		if start != nil && bytes.Compare(k, start) < 0 {
			return false
		}
		res = append(res, item.(keyer))
		return true
	}
	bt.Descend(collect)
	return res
}

// mergeIterator combines the cached items with the data of the parent
// store. Cached values shadow the parent ones and deleted markers hide them.
type mergeIterator struct {
	items   []keyer
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) (*mergeIterator, error) {
	it := &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.skipDeleted(); err != nil {
		parent.Close()
		return nil, err
	}
	return it, nil
}

// source marks where the current item comes from
type source int32

const (
	none source = iota
	cached
	parent
	both
)

// current selects the iterator with the first key in the order of iteration.
func (i *mergeIterator) current() source {
	hasCached := len(i.items) > 0
	hasParent := i.parent != nil && i.parent.Valid()
	switch {
	case !hasCached && !hasParent:
		return none
	case !hasParent:
		return cached
	case !hasCached:
		return parent
	}

	cmp := bytes.Compare(i.items[0].Key(), i.parent.Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return cached
	case cmp > 0:
		return parent
	default:
		return both
	}
}

// skipDeleted advances over all deleted markers, together with the parent
// entries they shadow.
func (i *mergeIterator) skipDeleted() error {
	for {
		src := i.current()
		if src != cached && src != both {
			return nil
		}
		if _, ok := i.items[0].(deletedItem); !ok {
			return nil
		}
		i.items = i.items[1:]
		if src == both {
			if err := i.parent.Next(); err != nil {
				return err
			}
		}
	}
}

// Valid implements Iterator and returns true iff it can be read
func (i *mergeIterator) Valid() bool {
	return i.current() != none
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
func (i *mergeIterator) Next() error {
	switch i.current() {
	case cached:
		i.items = i.items[1:]
	case both:
		i.items = i.items[1:]
		fallthrough
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("Advanced past the end!")
	}
	return i.skipDeleted()
}

// Key returns the key of the cursor.
func (i *mergeIterator) Key() []byte {
	switch i.current() {
	case cached, both:
		return i.items[0].Key()
	case parent:
		return i.parent.Key()
	default:
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *mergeIterator) Value() []byte {
	switch i.current() {
	case cached, both:
		return i.items[0].(setItem).value
	case parent:
		return i.parent.Value()
	default:
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *mergeIterator) Close() {
	i.items = nil
	if i.parent != nil {
		i.parent.Close()
	}
}
