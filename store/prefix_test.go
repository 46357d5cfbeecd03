package store

import (
	"testing"

	"github.com/iov-one/pantheon/pantheontest/assert"
)

func TestPrefixStoreIsolation(t *testing.T) {
	base := MemStore()
	a := NewPrefixStore(base, []byte("a/"))
	b := NewPrefixStore(base, []byte("b/"))

	assert.Nil(t, a.Set([]byte("key"), []byte("one")))
	assert.Nil(t, b.Set([]byte("key"), []byte("two")))

	got, err := a.Get([]byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("one"), got)

	got, err = base.Get([]byte("b/key"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("two"), got)

	assert.Nil(t, a.Delete([]byte("key")))
	ok, err := a.Has([]byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	ok, err = b.Has([]byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, true, ok)
}

func TestPrefixStoreIterator(t *testing.T) {
	base := MemStore()
	assert.Nil(t, base.Set([]byte("a"), []byte("outside")))
	assert.Nil(t, base.Set([]byte("p0"), []byte("outside")))
	p := NewPrefixStore(base, []byte("p/"))
	for _, k := range []string{"1", "2", "3"} {
		assert.Nil(t, p.Set([]byte(k), []byte("v"+k)))
	}
	assert.Nil(t, base.Set([]byte("q"), []byte("outside")))

	cases := map[string]struct {
		Start, End []byte
		Reverse    bool
		Want       []string
	}{
		"everything": {
			Want: []string{"1", "2", "3"},
		},
		"from start": {
			Start: []byte("2"),
			Want:  []string{"2", "3"},
		},
		"bounded": {
			Start: []byte("1"),
			End:   []byte("3"),
			Want:  []string{"1", "2"},
		},
		"reverse": {
			Reverse: true,
			Want:    []string{"3", "2", "1"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.Reverse {
				it, err = p.ReverseIterator(tc.Start, tc.End)
			} else {
				it, err = p.Iterator(tc.Start, tc.End)
			}
			assert.Nil(t, err)
			defer it.Close()

			got := []string{}
			for ; it.Valid(); assert.Nil(t, it.Next()) {
				got = append(got, string(it.Key()))
				assert.Equal(t, "v"+string(it.Key()), string(it.Value()))
			}
			assert.Equal(t, tc.Want, got)
		})
	}
}

func TestPrefixStoreBatch(t *testing.T) {
	base := MemStore()
	p := NewPrefixStore(base, []byte("x:"))
	assert.Nil(t, p.Set([]byte("gone"), []byte("1")))

	batch := p.NewBatch()
	assert.Nil(t, batch.Set([]byte("new"), []byte("2")))
	assert.Nil(t, batch.Delete([]byte("gone")))
	assert.Nil(t, batch.Write())

	got, err := base.Get([]byte("x:new"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), got)
	got, err = base.Get([]byte("x:gone"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}

func TestPrefixEnd(t *testing.T) {
	cases := map[string]struct {
		Prefix []byte
		Want   []byte
	}{
		"simple":  {Prefix: []byte("ab"), Want: []byte("ac")},
		"carry":   {Prefix: []byte{'a', 0xff}, Want: []byte("b")},
		"all max": {Prefix: []byte{0xff, 0xff}, Want: nil},
		"empty":   {Prefix: []byte{}, Want: nil},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.Want, PrefixEnd(tc.Prefix))
		})
	}
}
