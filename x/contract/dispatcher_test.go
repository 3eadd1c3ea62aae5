package contract

import (
	"context"
	"testing"

	"github.com/openst/openst-weave"
	"github.com/openst/openst-weave/errors"
	"github.com/openst/openst-weave/store"
	"github.com/openst/openst-weave/weavetest"
	"github.com/openst/openst-weave/weavetest/assert"
	"github.com/openst/openst-weave/x"
	"github.com/stretchr/testify/require"
)

type pingMsg struct {
	Contract weave.Address
	Value    []byte
	Fail     bool
}

func init() {
	weave.RegisterMsg(&pingMsg{}, "contract_test/ping")
}

func (m *pingMsg) Path() string               { return "ping/write" }
func (m *pingMsg) Target() weave.Address      { return m.Contract }
func (m *pingMsg) Validate() error            { return m.Contract.Validate() }
func (m *pingMsg) Marshal() ([]byte, error)   { return weave.MarshalBinary(m) }
func (m *pingMsg) Unmarshal(raw []byte) error { return weave.UnmarshalBinary(raw, m) }

// pingHandler writes the value under the caller address.
type pingHandler struct {
	depth int
	d     *Dispatcher
}

func (h *pingHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return &weave.CheckResult{}, nil
}

func (h *pingHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	var msg pingMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, err
	}
	caller, ok := x.GetCaller(ctx)
	if !ok {
		return nil, errors.ErrUnauthorized
	}
	db.Set(caller, msg.Value)
	if msg.Fail {
		return nil, errors.Wrap(errors.ErrState, "ping failed")
	}
	if h.d != nil {
		// call itself until the depth limit is reached
		h.depth++
		if _, err := h.d.Invoke(ctx, db, msg.Contract, &msg); err != nil {
			return nil, err
		}
	}
	res := &weave.DeliverResult{Data: msg.Value}
	res.AddTag("ping", msg.Value)
	return res, nil
}

func TestCreate(t *testing.T) {
	db := store.MemStore()

	a, err := Create(db, "ping")
	require.NoError(t, err)
	b, err := Create(db, "ping")
	require.NoError(t, err)
	assert.Equal(t, Address("ping", 1), a)
	assert.Equal(t, Address("ping", 2), b)
	if a.Equals(b) {
		t.Fatal("addresses must be unique")
	}

	kind, err := KindOf(db, a)
	require.NoError(t, err)
	assert.Equal(t, "ping", kind)
	if !IsKind(db, b, "ping") || IsContract(db, weavetest.NewAddress()) {
		t.Fatal("unexpected registry lookup")
	}

	_, err = Create(db, "Not A Kind")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestDispatcherCall(t *testing.T) {
	db := store.MemStore()
	ctx := context.Background()

	d := NewDispatcher()
	d.Bind(&pingHandler{})

	target, err := Create(db, "ping")
	require.NoError(t, err)
	other, err := Create(db, "pong")
	require.NoError(t, err)
	caller := weavetest.NewAddress()

	payload := weave.MustEncodeMsg(&pingMsg{Contract: target, Value: []byte("hello")})
	res, ok := d.Call(ctx, db, caller, target, payload)
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), res.Data)
	assert.Tag(t, res, "ping", []byte("hello"))
	assert.Equal(t, []byte("hello"), db.Get(caller))

	cases := map[string]struct {
		to      weave.Address
		payload []byte
	}{
		"garbage payload": {
			to:      target,
			payload: []byte("not a message"),
		},
		"target mismatch": {
			to:      other,
			payload: weave.MustEncodeMsg(&pingMsg{Contract: target, Value: []byte("x")}),
		},
		"kind mismatch": {
			to:      other,
			payload: weave.MustEncodeMsg(&pingMsg{Contract: other, Value: []byte("x")}),
		},
		"not a contract": {
			to:      caller,
			payload: weave.MustEncodeMsg(&pingMsg{Contract: caller, Value: []byte("x")}),
		},
		"handler failure": {
			to:      target,
			payload: weave.MustEncodeMsg(&pingMsg{Contract: target, Value: []byte("x"), Fail: true}),
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, ok := d.Call(ctx, db, caller, tc.to, tc.payload)
			require.False(t, ok)
			// failed call leaves no trace
			assert.Equal(t, []byte("hello"), db.Get(caller))
		})
	}
}

func TestDispatcherStaticCall(t *testing.T) {
	db := store.MemStore()
	d := NewDispatcher()
	d.Bind(&pingHandler{})

	target, err := Create(db, "ping")
	require.NoError(t, err)
	caller := weavetest.NewAddress()

	payload := weave.MustEncodeMsg(&pingMsg{Contract: target, Value: []byte("static")})
	res, ok := d.StaticCall(context.Background(), db, caller, target, payload)
	require.True(t, ok)
	assert.Equal(t, []byte("static"), res.Data)
	assert.Nil(t, db.Get(caller))
}

func TestDispatcherDepthLimit(t *testing.T) {
	db := store.MemStore()
	d := NewDispatcher()
	h := &pingHandler{d: d}
	d.Bind(h)

	target, err := Create(db, "ping")
	require.NoError(t, err)

	_, err = d.Invoke(context.Background(), db, weavetest.NewAddress(), &pingMsg{Contract: target})
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, MaxCallDepth, h.depth)
}

func TestDispatcherNotBound(t *testing.T) {
	db := store.MemStore()
	target, err := Create(db, "ping")
	require.NoError(t, err)
	_, err = NewDispatcher().Invoke(context.Background(), db, weavetest.NewAddress(), &pingMsg{Contract: target})
	assert.IsErr(t, errors.ErrHuman, err)
}
