package store

import "github.com/openst/openst-weave"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = weave.KVStore
type ReadOnlyKVStore = weave.ReadOnlyKVStore
type SetDeleter = weave.SetDeleter
type Batch = weave.Batch
type Iterator = weave.Iterator
type CacheableKVStore = weave.CacheableKVStore
type KVCacheWrap = weave.KVCacheWrap

// Model is a key value pair, used by SliceIterator.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair constructs a model from a key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}
