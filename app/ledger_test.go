package app

import (
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x/utils"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, h weave.Handler, decoder weave.TxDecoder) *Ledger {
	t.Helper()
	l := NewLedger(h, decoder, nil)
	require.NoError(t, l.InitChain(Genesis{ChainID: "ledger-test"}, nil))
	return l
}

func storedValue(t *testing.T, l *Ledger, key []byte) []byte {
	t.Helper()
	var value []byte
	err := l.Query(func(ctx weave.Context, db weave.ReadOnlyKVStore) error {
		value = db.Get(key)
		return nil
	})
	require.NoError(t, err)
	return value
}

func TestLedgerDeliverKeepsWritesOfFailure(t *testing.T) {
	h := &weavetest.Handler{Key: []byte("k"), Value: []byte("v1")}
	l := newTestLedger(t, h, nil)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/write"}}

	_, err := l.Deliver(tx)
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), storedValue(t, l, []byte("k")))

	// rolling back a failed message is up to the savepoint decorator
	h.Value = []byte("v2")
	h.DeliverErr = errors.ErrState
	_, err = l.Deliver(tx)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, []byte("v2"), storedValue(t, l, []byte("k")))

	// a panic discards everything
	h.Value = []byte("v3")
	h.DeliverErr = nil
	h.Panic = "boom"
	_, err = l.Deliver(tx)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, []byte("v2"), storedValue(t, l, []byte("k")))

	// check never writes
	h.Panic = nil
	h.Value = []byte("v4")
	_, err = l.Check(tx)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), storedValue(t, l, []byte("k")))
}

func TestLedgerDeliverWithSavepoint(t *testing.T) {
	inner := &weavetest.Handler{Key: []byte("inner"), Value: []byte("dropped"), DeliverErr: errors.ErrState}
	h := ChainDecorators(
		writingDecorator{key: []byte("outer"), value: []byte("kept")},
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(inner)
	l := newTestLedger(t, h, nil)

	_, err := l.Deliver(&weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/write"}})
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, []byte("kept"), storedValue(t, l, []byte("outer")))
	assert.Equal(t, []byte(nil), storedValue(t, l, []byte("inner")))
}

// writingDecorator writes before calling the next handler, the way the
// signature decorator stores a sequence.
type writingDecorator struct {
	key, value []byte
}

func (d writingDecorator) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (d writingDecorator) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	db.Set(d.key, d.value)
	return next.Deliver(ctx, db, tx)
}

type heightHandler struct {
	weavetest.Handler
	heights []int64
}

func (h *heightHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	height, _ := weave.GetHeight(ctx)
	h.heights = append(h.heights, height)
	return &weave.DeliverResult{}, nil
}

func TestLedgerBlocks(t *testing.T) {
	h := &heightHandler{}
	l := NewLedger(h, nil, nil)
	require.NoError(t, l.InitChain(Genesis{ChainID: "ledger-test", InitialHeight: 10}, nil))
	assert.IsErr(t, errors.ErrState, l.InitChain(Genesis{ChainID: "ledger-test"}, nil))

	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/height"}}
	_, err := l.Deliver(tx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), l.NextBlock())
	_, err = l.Deliver(tx)
	require.NoError(t, err)
	assert.Equal(t, int64(16), l.AdvanceBlocks(5))

	assert.Equal(t, []int64{10, 11}, h.heights)
	assert.Equal(t, "ledger-test", l.ChainID())

	height, ok := weave.GetHeight(l.Context())
	require.True(t, ok)
	assert.Equal(t, int64(16), height)
}

func TestLedgerDeliverTx(t *testing.T) {
	h := &weavetest.Handler{DeliverResult: weave.DeliverResult{Data: []byte("ok")}}
	decoder := func(raw []byte) (weave.Tx, error) {
		if string(raw) == "bad" {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode")
		}
		return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/raw"}}, nil
	}
	l := newTestLedger(t, h, decoder)

	res := l.DeliverTx([]byte("good"))
	assert.Equal(t, uint32(0), res.Code)
	assert.Equal(t, []byte("ok"), res.Data)

	res = l.DeliverTx([]byte("bad"))
	assert.Equal(t, errors.ErrInput.ABCICode(), res.Code)

	check := l.CheckTx([]byte("bad"))
	assert.Equal(t, errors.ErrInput.ABCICode(), check.Code)
}
