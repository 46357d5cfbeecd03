package store

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/pantheon/pantheontest/assert"
)

// TestSuite checks a CacheableKVStore against the way the ledger uses it:
// a cache wrap per request, a nested wrap per message and ranges over a
// single contract prefix. Each backend provides a constructor and calls the
// suite methods from its own tests.
type TestSuite struct {
	makeBase TestStoreConstructor
}

type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// RequestAtomicity ensures that writes of a request reach the base store
// only when the request wrap is written, and that a failing message is
// dropped without touching the rest of the request.
func (s *TestSuite) RequestAtomicity(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	alice, bob := []byte("bank/alice"), []byte("bank/bob")
	assert.Nil(t, base.Set(alice, []byte("100")))

	// A discarded request leaves nothing behind.
	req := base.CacheWrap()
	assert.Nil(t, req.Set(alice, []byte("40")))
	assert.Nil(t, req.Set(bob, []byte("60")))
	assertGetHas(t, req, bob, []byte("60"), true)
	assertGetHas(t, base, bob, nil, false)
	req.Discard()
	assertGetHas(t, base, alice, []byte("100"), true)
	assertGetHas(t, base, bob, nil, false)

	req = base.CacheWrap()
	assert.Nil(t, req.Set([]byte("ledger/height"), []byte("2")))

	ok := req.CacheWrap()
	assert.Nil(t, ok.Set(alice, []byte("90")))
	assert.Nil(t, ok.Set(bob, []byte("10")))
	assert.Nil(t, ok.Write())

	failed := req.CacheWrap()
	assert.Nil(t, failed.Delete(alice))
	assert.Nil(t, failed.Set([]byte("bank/carol"), []byte("90")))
	assertGetHas(t, failed, alice, nil, false)
	failed.Discard()

	assertGetHas(t, base, bob, nil, false)
	assert.Nil(t, req.Write())

	for key, want := range map[string][]byte{
		"ledger/height": []byte("2"),
		"bank/alice":    []byte("90"),
		"bank/bob":      []byte("10"),
		"bank/carol":    nil,
	} {
		assertGetHas(t, base, []byte(key), want, want != nil)
	}
}

// CacheConflicts checks that a wrap overwrites and deletes values of its
// parent without changing the parent until written.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	k := func(n int) []byte { return []byte(fmt.Sprintf("share/%02d", n)) }
	v := func(p string) []byte { return []byte(p) }

	cases := map[string]struct {
		parentOps     []Op
		childOps      []Op
		parentQueries []Model
		childQueries  []Model
	}{
		"replace the share set": {
			parentOps:     []Op{SetOp(k(1), v("0.5")), SetOp(k(2), v("0.5"))},
			childOps:      []Op{DelOp(k(1)), DelOp(k(2)), SetOp(k(3), v("1"))},
			parentQueries: []Model{Pair(k(1), v("0.5")), Pair(k(2), v("0.5")), Pair(k(3), nil)},
			childQueries:  []Model{Pair(k(1), nil), Pair(k(2), nil), Pair(k(3), v("1"))},
		},
		"overwrite one, delete another, add a third": {
			parentOps:     []Op{SetOp(k(1), v("0.6")), SetOp(k(2), v("0.4"))},
			childOps:      []Op{SetOp(k(1), v("0.3")), SetOp(k(3), v("0.7")), DelOp(k(2))},
			parentQueries: []Model{Pair(k(1), v("0.6")), Pair(k(2), v("0.4")), Pair(k(3), nil)},
			childQueries:  []Model{Pair(k(1), v("0.3")), Pair(k(2), nil), Pair(k(3), v("0.7"))},
		},
		"delete then set again": {
			parentOps:     []Op{SetOp(k(1), v("1"))},
			childOps:      []Op{DelOp(k(1)), SetOp(k(1), v("0.9"))},
			parentQueries: []Model{Pair(k(1), v("1"))},
			childQueries:  []Model{Pair(k(1), v("0.9"))},
		},
		"delete a missing key": {
			childOps:     []Op{DelOp(k(4))},
			childQueries: []Model{Pair(k(4), nil)},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, cleanup := s.makeBase()
			defer cleanup()

			for _, op := range tc.parentOps {
				assert.Nil(t, op.Apply(parent))
			}
			child := parent.CacheWrap()
			for _, op := range tc.childOps {
				assert.Nil(t, op.Apply(child))
			}

			for _, q := range tc.parentQueries {
				assertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
			for _, q := range tc.childQueries {
				assertGetHas(t, child, q.Key, q.Value, q.Value != nil)
			}

			assert.Nil(t, child.Write())
			for _, q := range tc.childQueries {
				assertGetHas(t, parent, q.Key, q.Value, q.Value != nil)
			}
		})
	}
}

// ContractRange iterates the storage of one contract through a request wrap
// that changes some of its keys. Keys of other contracts must never show
// up and the wrap must be merged with the parent in key order.
func (s *TestSuite) ContractRange(t *testing.T) {
	mine, other := []byte("_w:mine/"), []byte("_w:other/")
	key := func(n int) []byte { return []byte(fmt.Sprintf("share/%02d", n)) }

	cases := map[string]struct {
		parent []Op
		child  []Op
		start  []byte
		end    []byte
		want   []string
	}{
		"parent only": {
			parent: []Op{SetOp(key(1), []byte("a")), SetOp(key(2), []byte("b"))},
			want:   []string{"share/01=a", "share/02=b"},
		},
		"child only": {
			child: []Op{SetOp(key(2), []byte("b")), SetOp(key(1), []byte("a"))},
			want:  []string{"share/01=a", "share/02=b"},
		},
		"child overwrites and deletes": {
			parent: []Op{SetOp(key(1), []byte("a")), SetOp(key(2), []byte("b")), SetOp(key(3), []byte("c"))},
			child:  []Op{SetOp(key(2), []byte("B")), DelOp(key(3)), SetOp(key(4), []byte("d"))},
			want:   []string{"share/01=a", "share/02=B", "share/04=d"},
		},
		"exclusive start": {
			parent: []Op{SetOp(key(1), []byte("a")), SetOp(key(2), []byte("b"))},
			child:  []Op{SetOp(key(3), []byte("c"))},
			start:  append(key(1), 0),
			want:   []string{"share/02=b", "share/03=c"},
		},
		"bounded range": {
			parent: []Op{SetOp(key(1), []byte("a")), SetOp(key(2), []byte("b")), SetOp(key(3), []byte("c"))},
			start:  key(2),
			end:    key(3),
			want:   []string{"share/02=b"},
		},
		"everything deleted": {
			parent: []Op{SetOp(key(1), []byte("a"))},
			child:  []Op{DelOp(key(1))},
			want:   nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()

			// Another contract uses the same keys.
			for n := 0; n <= 5; n++ {
				assert.Nil(t, NewPrefixStore(base, other).Set(key(n), []byte("other")))
			}
			for _, op := range tc.parent {
				assert.Nil(t, op.Apply(NewPrefixStore(base, mine)))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				assert.Nil(t, op.Apply(NewPrefixStore(child, mine)))
			}

			db := NewPrefixStore(child, mine)
			it, err := db.Iterator(tc.start, tc.end)
			assert.Nil(t, err)
			assert.Equal(t, tc.want, collect(t, it))

			it, err = db.ReverseIterator(tc.start, tc.end)
			assert.Nil(t, err)
			assert.Equal(t, reversed(tc.want), collect(t, it))
		})
	}
}

func assertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	if !bytes.Equal(val, got) {
		t.Fatalf("%s: want %q, got %q", key, val, got)
	}
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// collect consumes the iterator and returns its content as key=value
// strings.
func collect(t testing.TB, it Iterator) []string {
	t.Helper()
	defer it.Close()
	var res []string
	for ; it.Valid(); assert.Nil(t, it.Next()) {
		res = append(res, fmt.Sprintf("%s=%s", it.Key(), it.Value()))
	}
	return res
}

func reversed(s []string) []string {
	if s == nil {
		return nil
	}
	res := make([]string, len(s))
	for i := range s {
		res[i] = s[len(s)-1-i]
	}
	return res
}
