package orm

import (
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	Name  string
	Count int64
}

func (c *counter) Marshal() ([]byte, error)   { return weave.MarshalBinary(c) }
func (c *counter) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, c) }
func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

type other struct {
	counter
}

func newCounterBucket() ModelBucket {
	return NewModelBucket("counters", &counter{}, WithIndex("name", func(obj Object) ([]byte, error) {
		c, ok := obj.Value().(*counter)
		if !ok {
			return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
		}
		return []byte(c.Name), nil
	}))
}

func TestModelBucketPutOneDelete(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	require.NoError(t, b.Put(db, []byte("a"), &counter{Name: "alpha", Count: 1}))

	var got counter
	require.NoError(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, counter{Name: "alpha", Count: 1}, got)
	assert.True(t, b.Has(db, []byte("a")))

	err := b.One(db, []byte("missing"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = b.Put(db, []byte("b"), &counter{Count: -1})
	assert.True(t, errors.ErrModel.Is(err))

	err = b.Put(db, []byte("c"), &other{})
	assert.True(t, errors.ErrType.Is(err))

	require.NoError(t, b.Delete(db, []byte("a")))
	assert.False(t, b.Has(db, []byte("a")))
	assert.True(t, errors.ErrNotFound.Is(b.Delete(db, []byte("a"))))
}

func TestModelBucketUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := newCounterBucket()

	require.NoError(t, b.Put(db, []byte("a"), &counter{Name: "alpha"}))
	err := b.Put(db, []byte("b"), &counter{Name: "alpha"})
	assert.True(t, errors.ErrDuplicate.Is(err))

	var got counter
	key, err := b.ByIndex(db, "name", []byte("alpha"), &got)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), key)

	// Renaming releases the old value.
	require.NoError(t, b.Put(db, []byte("a"), &counter{Name: "beta"}))
	require.NoError(t, b.Put(db, []byte("b"), &counter{Name: "alpha"}))
	key, err = b.ByIndex(db, "name", []byte("alpha"), &got)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), key)

	_, err = b.ByIndex(db, "name", []byte("gamma"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = b.ByIndex(db, "nope", []byte("gamma"), &got)
	assert.True(t, ErrInvalidIndex.Is(err))
}

func TestModelBucketIterate(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("counters", &counter{})

	require.NoError(t, b.Put(db, CompositeKey([]byte("x"), []byte("2")), &counter{Count: 2}))
	require.NoError(t, b.Put(db, CompositeKey([]byte("x"), []byte("1")), &counter{Count: 1}))
	require.NoError(t, b.Put(db, CompositeKey([]byte("y"), []byte("1")), &counter{Count: 3}))

	var total int64
	var keys []string
	err := b.Iterate(db, []byte("x"), func(key []byte, m Model) error {
		keys = append(keys, string(key))
		total += m.(*counter).Count
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, keys)
	assert.Equal(t, int64(3), total)
}

func TestSequence(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("counters", SeqID)
	assert.Equal(t, int64(0), s.Latest(db))
	assert.Equal(t, int64(1), s.NextInt(db))
	assert.Equal(t, EncodeSequence(2), s.NextVal(db))
	assert.Equal(t, int64(2), s.Latest(db))
}
