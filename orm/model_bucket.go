package orm

import (
	"reflect"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
)

// ModelBucket is implemented by buckets that operates on Models rather than
// Objects.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db weave.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given primary key exists.
	Has(db weave.ReadOnlyKVStore, key []byte) bool

	// ByIndex loads into dest the entity that is indexed under given
	// value by the named unique index. ErrNotFound is returned if none.
	ByIndex(db weave.ReadOnlyKVStore, indexName string, value []byte, dest Model) (key []byte, err error)

	// Put saves given model in the database.
	Put(db weave.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db weave.KVStore, key []byte) error

	// Iterate calls fn for each entity with a primary key starting with
	// given prefix, in key order. Returned key does not contain the prefix
	// of the bucket but does contain the given prefix.
	Iterate(db weave.ReadOnlyKVStore, prefix []byte, fn func(key []byte, m Model) error) error
}

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build a unique index with given name.
// All entities stored in the bucket are indexed using value returned by the
// indexer function.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		mb.b = mb.b.WithIndex(name, indexer)
	}
}

// NewModelBucket returns a ModelBucket instance. This implementation relies on
// a bucket instance.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	b := NewBucket(name, NewSimpleObj(nil, m))
	tp := reflect.TypeOf(m)
	mb := &modelBucket{
		b:     b,
		model: tp,
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	b     Bucket
	model reflect.Type
}

func (mb *modelBucket) One(db weave.ReadOnlyKVStore, key []byte, dest Model) error {
	obj, err := mb.b.Get(db, key)
	if err != nil {
		return err
	}
	if obj == nil || obj.Value() == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return load(obj, dest)
}

func load(obj Object, dest Model) error {
	res := obj.Value()
	if !reflect.TypeOf(res).AssignableTo(reflect.TypeOf(dest)) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %T", res, dest)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(res).Elem())
	return nil
}

func (mb *modelBucket) Has(db weave.ReadOnlyKVStore, key []byte) bool {
	return mb.b.Has(db, key)
}

func (mb *modelBucket) ByIndex(db weave.ReadOnlyKVStore, indexName string, value []byte, dest Model) ([]byte, error) {
	obj, err := mb.b.GetIndexed(db, indexName, value)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return obj.Key(), load(obj, dest)
}

func (mb *modelBucket) Put(db weave.KVStore, key []byte, m Model) error {
	if tp := reflect.TypeOf(m); tp != mb.model {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.b.Name())
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	obj := NewSimpleObj(key, m)
	if err := mb.b.Save(db, obj); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db weave.KVStore, key []byte) error {
	if !mb.b.Has(db, key) {
		return errors.Wrapf(errors.ErrNotFound, "key %X", key)
	}
	return mb.b.Delete(db, key)
}

func (mb *modelBucket) Iterate(db weave.ReadOnlyKVStore, prefix []byte, fn func([]byte, Model) error) error {
	return mb.b.Iterate(db, prefix, func(obj Object) error {
		return fn(obj.Key(), obj.Value().(Model))
	})
}

var _ ModelBucket = (*modelBucket)(nil)
