package orm

import (
	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

const uniqueIdxPrefix = "_i."

// uniqueIndex stores the primary key of an object under the value computed
// by the indexer. Two objects cannot share the same indexed value.
type uniqueIndex struct {
	name  string
	id    []byte
	index Indexer
}

func newUniqueIndex(name string, indexer Indexer) *uniqueIndex {
	return &uniqueIndex{
		name:  name,
		id:    []byte(uniqueIdxPrefix + name + ":"),
		index: indexer,
	}
}

func (i *uniqueIndex) dbKey(value []byte) []byte {
	out := make([]byte, len(i.id)+len(value))
	copy(out, i.id)
	copy(out[len(i.id):], value)
	return out
}

// Get returns the primary key stored under the indexed value or nil.
func (i *uniqueIndex) Get(db weave.ReadOnlyKVStore, value []byte) []byte {
	return db.Get(i.dbKey(value))
}

// Update updates the index. It should be called when any of the bucket
// entities has changed in the store.
//
// prev == nil means insert
// save == nil means delete
func (i *uniqueIndex) Update(db weave.KVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one object")
	}

	var oldVal, newVal []byte
	if prev != nil {
		v, err := i.index(prev)
		if err != nil {
			return err
		}
		oldVal = v
	}
	if save != nil {
		v, err := i.index(save)
		if err != nil {
			return err
		}
		newVal = v
	}
	if oldVal != nil && newVal != nil && string(oldVal) == string(newVal) {
		return nil
	}

	if newVal != nil {
		key := i.dbKey(newVal)
		if ref := db.Get(key); ref != nil && string(ref) != string(save.Key()) {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
		}
		db.Set(key, save.Key())
	}
	if oldVal != nil {
		db.Delete(i.dbKey(oldVal))
	}
	return nil
}
