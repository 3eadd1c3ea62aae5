package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	base := MemStore()
	base.Set([]byte("a"), []byte("1"))

	cache := base.CacheWrap()
	cache.Set([]byte("b"), []byte("2"))
	cache.Delete([]byte("a"))
	assert.Nil(t, cache.Get([]byte("a")))
	assert.True(t, cache.Has([]byte("b")))
	assert.Equal(t, []byte("1"), base.Get([]byte("a")))
	assert.False(t, base.Has([]byte("b")))

	cache.Discard()
	assert.Equal(t, []byte("1"), base.Get([]byte("a")))
	assert.False(t, base.Has([]byte("b")))

	cache = base.CacheWrap()
	cache.Set([]byte("b"), []byte("2"))
	cache.Delete([]byte("a"))
	cache.Write()
	assert.False(t, base.Has([]byte("a")))
	assert.Equal(t, []byte("2"), base.Get([]byte("b")))
}

func TestNestedCacheWraps(t *testing.T) {
	base := MemStore()
	outer := base.CacheWrap()
	outer.Set([]byte("k"), []byte("outer"))

	inner := outer.CacheWrap()
	inner.Set([]byte("k"), []byte("inner"))
	assert.Equal(t, []byte("outer"), outer.Get([]byte("k")))
	inner.Write()
	assert.Equal(t, []byte("inner"), outer.Get([]byte("k")))
	assert.Nil(t, base.Get([]byte("k")))

	outer.Write()
	assert.Equal(t, []byte("inner"), base.Get([]byte("k")))
}

func TestIteratorMergesCacheAndParent(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "c", "e", "g"} {
		base.Set([]byte(k), []byte(k))
	}
	cache := base.CacheWrap()
	cache.Set([]byte("b"), []byte("b"))
	cache.Set([]byte("c"), []byte("C"))
	cache.Delete([]byte("e"))
	cache.Set([]byte("h"), []byte("h"))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"full range": {
			want: []Model{Pair([]byte("a"), []byte("a")), Pair([]byte("b"), []byte("b")), Pair([]byte("c"), []byte("C")), Pair([]byte("g"), []byte("g")), Pair([]byte("h"), []byte("h"))},
		},
		"bounded range": {
			start: []byte("b"),
			end:   []byte("g"),
			want:  []Model{Pair([]byte("b"), []byte("b")), Pair([]byte("c"), []byte("C"))},
		},
		"reverse range": {
			start:   []byte("a"),
			end:     []byte("h"),
			reverse: true,
			want:    []Model{Pair([]byte("g"), []byte("g")), Pair([]byte("c"), []byte("C")), Pair([]byte("b"), []byte("b")), Pair([]byte("a"), []byte("a"))},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var it Iterator
			if tc.reverse {
				it = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it = cache.Iterator(tc.start, tc.end)
			}
			defer it.Close()
			var got []Model
			for ; it.Valid(); it.Next() {
				got = append(got, Pair(it.Key(), it.Value()))
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestLogableStore(t *testing.T) {
	kv, ops := LogableStore()
	kv.Set([]byte("x"), []byte("1"))
	kv.Delete([]byte("y"))
	got := ops.ShowOps()
	require.Len(t, got, 2)
	assert.True(t, got[0].IsSetOp())
	assert.False(t, got[1].IsSetOp())
	assert.Equal(t, []byte("y"), got[1].Key())
}
